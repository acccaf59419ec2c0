package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/config"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/repository"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-escrow/transport/rest"
)

var (
	ErrAddrNotFound     = errors.New("redis host is empty")
	ErrUnknownPublisher = errors.New("unknown events publisher")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sessionRepo := repository.NewSessionRepository(redisStorage, conf.SessionTTL)
	publisher, err := newEventPublisher(logger, conf.Events, redisStorage)
	if err != nil {
		return fmt.Errorf("could not create events publisher: %w", err)
	}

	gameManager := usecase.NewGameManager(logger, sessionRepo, publisher)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, gameManager); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

type eventPublisher interface {
	Publish(ctx context.Context, sessionID string, event tictactoe.Event) error
}

func newEventPublisher(logger *slog.Logger, conf config.Events, client *redis.Client) (eventPublisher, error) {
	switch conf.Publisher {
	case config.PublisherRedis:
		return usecase.NewRedisEventPublisher(client, conf.ChannelPrefix), nil
	case config.PublisherLog:
		return usecase.NewLogEventPublisher(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPublisher, conf.Publisher)
	}
}
