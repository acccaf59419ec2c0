package application

import (
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/config"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunApp_EmptyRedisHost(t *testing.T) {
	// Given: a config without a redis host
	conf := &config.Config{HTTPPort: "0", Redis: config.Redis{Port: "6379"}}

	// When: the app is started
	err := RunApp(slog.New(slog.NewTextHandler(io.Discard, nil)), conf)

	// Then: it stops before connecting
	require.ErrorIs(t, err, ErrAddrNotFound)
}

func TestNewEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = client.Close() })

	t.Run("Redis publisher", func(t *testing.T) {
		publisher, err := newEventPublisher(logger, config.Events{Publisher: config.PublisherRedis, ChannelPrefix: "games"}, client)

		require.NoError(t, err)
		redisPublisher, ok := publisher.(*usecase.RedisEventPublisher)
		require.True(t, ok)
		assert.Equal(t, "games:abc", redisPublisher.Channel("abc"))
	})

	t.Run("Log publisher", func(t *testing.T) {
		publisher, err := newEventPublisher(logger, config.Events{Publisher: config.PublisherLog}, client)

		require.NoError(t, err)
		assert.IsType(t, &usecase.LogEventPublisher{}, publisher)
	})

	t.Run("Unknown publisher", func(t *testing.T) {
		publisher, err := newEventPublisher(logger, config.Events{Publisher: "kafka"}, client)

		require.ErrorIs(t, err, ErrUnknownPublisher)
		assert.Nil(t, publisher)
	})
}
