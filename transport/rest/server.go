package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts the session API.
func NewRouter(logger *slog.Logger, manager gameManager) *chi.Mux {
	ping := NewPingHandler()
	sessions := newSessionHandlers(logger, manager)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/ping", ping.PingHandler)
	r.Get("/rows", sessions.Rows)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessions.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessions.Get)
			r.Delete("/", sessions.Delete)

			r.Post("/players/reset", sessions.ResetPlayers)
			r.Post("/board/reset", sessions.ResetBoard)
			r.Post("/start", sessions.Start)
			r.Post("/toggle", sessions.Toggle)

			r.Get("/balance", sessions.Balance)
			r.Get("/board", sessions.Board)
			r.Get("/players", sessions.Players)
			r.Get("/current-player", sessions.CurrentPlayer)
			r.Get("/turns", sessions.Turns)

			r.Group(func(r chi.Router) {
				r.Use(requirePlayer)
				r.Post("/join", sessions.Join)
				r.Post("/moves", sessions.Move)
				r.Post("/deposits", sessions.Deposit)
			})
		})
	})

	return r
}

// Start serves the API on port until ctx is canceled.
func Start(ctx context.Context, logger *slog.Logger, port string, manager gameManager) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(logger, manager),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	}
}
