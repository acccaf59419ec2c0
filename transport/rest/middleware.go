package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/entity"
)

// PlayerHeader carries the caller identity, authenticated upstream.
const PlayerHeader = "X-Player-ID"

type playerContextKey struct{}

func playerFromContext(ctx context.Context) entity.Identity {
	player, _ := ctx.Value(playerContextKey{}).(entity.Identity)
	return player
}

// requirePlayer rejects requests without a player identity.
func requirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := strings.TrimSpace(r.Header.Get(PlayerHeader))
		if player == "" {
			writeErr(w, http.StatusUnauthorized, "missing "+PlayerHeader+" header", "")
			return
		}

		ctx := context.WithValue(r.Context(), playerContextKey{}, entity.Identity(player))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		logger,
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				route := req.URL.Path
				if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}

				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
					slog.String("player", req.Header.Get(PlayerHeader)),
				}
			},
		},
	)
}
