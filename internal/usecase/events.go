package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/tictactoe"
)

// eventBuffer holds engine events until the change that produced them is stored.
type eventBuffer struct {
	mu     sync.Mutex
	events []tictactoe.Event
}

func (that *eventBuffer) Publish(event tictactoe.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *eventBuffer) drain() []tictactoe.Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	events := that.events
	that.events = nil

	return events
}

// SessionEvent is the message published for every engine event.
type SessionEvent struct {
	SessionID string          `json:"session_id"`
	Event     tictactoe.Event `json:"event"`
}

type RedisEventPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisEventPublisher publishes events on "<prefix>:<sessionID>" channels.
func NewRedisEventPublisher(client *redis.Client, prefix string) *RedisEventPublisher {
	return &RedisEventPublisher{
		client: client,
		prefix: prefix,
	}
}

func (that *RedisEventPublisher) Channel(sessionID string) string {
	return that.prefix + ":" + sessionID
}

func (that *RedisEventPublisher) Publish(ctx context.Context, sessionID string, event tictactoe.Event) error {
	message, err := json.Marshal(SessionEvent{SessionID: sessionID, Event: event})
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.Channel(sessionID), message).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// LogEventPublisher only logs events. Selected with events.publisher: log.
type LogEventPublisher struct {
	logger *slog.Logger
}

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger.With("component", "events")}
}

func (that *LogEventPublisher) Publish(_ context.Context, sessionID string, event tictactoe.Event) error {
	that.logger.Info("session event", "sessionID", sessionID, "type", event.Type, "player", event.Player, "amount", event.Amount)
	return nil
}
