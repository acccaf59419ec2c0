package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/entity"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot tictactoe.Snapshot) error
	GetByID(ctx context.Context, id string) (*tictactoe.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type eventPublisher interface {
	Publish(ctx context.Context, sessionID string, event tictactoe.Event) error
}

// View is a read-only picture of a session.
type View struct {
	ID            string             `json:"id"`
	Board         string             `json:"board"`
	Cells         []int              `json:"cells"`
	Players       [2]entity.Identity `json:"players"`
	CurrentPlayer entity.Identity    `json:"current_player"`
	Turns         int                `json:"turns"`
	State         entity.State       `json:"state"`
	Winner        entity.Identity    `json:"winner,omitempty"`
	Balance       int64              `json:"balance"`
}

func newView(id string, snapshot tictactoe.Snapshot) *View {
	session := snapshot.Session

	var balance int64
	for _, amount := range snapshot.Balances {
		balance += amount
	}

	return &View{
		ID:            id,
		Board:         session.Board.String(),
		Cells:         session.Board.Ints(),
		Players:       session.Players,
		CurrentPlayer: session.CurrentPlayer(),
		Turns:         session.TurnCount,
		State:         session.State,
		Winner:        session.Winner,
		Balance:       balance,
	}
}

// sessionEntry serializes everything done to one session: engine call, save, publish.
// Reads take mu too, so they never see a change that is not stored yet.
type sessionEntry struct {
	mu      sync.Mutex
	engine  *tictactoe.Engine
	buffer  *eventBuffer
	deleted bool
}

// GameManager hosts many sessions, persists each accepted change and publishes
// its events after the change is stored.
type GameManager struct {
	logger    *slog.Logger
	repo      sessionRepo
	publisher eventPublisher

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewGameManager(logger *slog.Logger, repo sessionRepo, publisher eventPublisher) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		repo:      repo,
		publisher: publisher,
		sessions:  make(map[string]*sessionEntry),
	}
}

func (that *GameManager) CreateSession(ctx context.Context) (*View, error) {
	id := pkg.GenerateSessionID()
	entry := that.newEntry()

	snapshot := entry.engine.Snapshot()
	if err := that.repo.CreateOrUpdate(ctx, id, snapshot); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.mu.Lock()
	that.sessions[id] = entry
	that.mu.Unlock()

	that.logger.Info("session created", "sessionID", id)

	return newView(id, snapshot), nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*View, error) {
	var view *View
	err := that.read(ctx, id, func(engine *tictactoe.Engine) {
		view = newView(id, engine.Snapshot())
	})

	return view, err
}

// DeleteSession removes the session from storage. Changes still waiting on the
// session lock fail with ErrSessionNotFound afterwards.
func (that *GameManager) DeleteSession(ctx context.Context, id string) error {
	entry, err := that.getEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.deleted {
		return fmt.Errorf("failed to delete session: %w: %s", apperror.ErrSessionNotFound, id)
	}

	if err = that.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	// the entry stays mapped as a tombstone so a load that raced with the delete
	// cannot put the old state back
	entry.deleted = true

	that.logger.Info("session deleted", "sessionID", id)

	return nil
}

func (that *GameManager) JoinGame(ctx context.Context, id string, player entity.Identity) (*View, error) {
	return that.mutate(ctx, id, "JoinGame", func(engine *tictactoe.Engine) error {
		return engine.JoinGame(player)
	})
}

func (that *GameManager) ResetPlayers(ctx context.Context, id string) (*View, error) {
	return that.mutate(ctx, id, "ResetPlayers", func(engine *tictactoe.Engine) error {
		engine.ResetPlayers()
		return nil
	})
}

func (that *GameManager) ResetBoard(ctx context.Context, id string) (*View, error) {
	return that.mutate(ctx, id, "ResetBoard", func(engine *tictactoe.Engine) error {
		engine.ResetBoard()
		return nil
	})
}

func (that *GameManager) StartGame(ctx context.Context, id string) (*View, error) {
	return that.mutate(ctx, id, "StartGame", func(engine *tictactoe.Engine) error {
		return engine.StartGame()
	})
}

func (that *GameManager) ToggleCurrentPlayer(ctx context.Context, id string) (*View, error) {
	return that.mutate(ctx, id, "ToggleCurrentPlayer", func(engine *tictactoe.Engine) error {
		engine.ToggleCurrentPlayer()
		return nil
	})
}

func (that *GameManager) Move(ctx context.Context, id string, player entity.Identity, position int) (*View, error) {
	return that.mutate(ctx, id, "Move", func(engine *tictactoe.Engine) error {
		_, err := engine.Move(player, position)
		return err
	})
}

func (that *GameManager) Deposit(ctx context.Context, id string, player entity.Identity, amount int64) (*View, error) {
	return that.mutate(ctx, id, "Deposit", func(engine *tictactoe.Engine) error {
		return engine.Deposit(player, amount)
	})
}

func (that *GameManager) GetBalance(ctx context.Context, id string) (int64, error) {
	view, err := that.GetSession(ctx, id)
	if err != nil {
		return 0, err
	}

	return view.Balance, nil
}

func (that *GameManager) GetBoard(ctx context.Context, id string) (entity.Board, error) {
	var board entity.Board
	err := that.read(ctx, id, func(engine *tictactoe.Engine) {
		board = engine.GetBoard()
	})

	return board, err
}

func (that *GameManager) GetPlayers(ctx context.Context, id string) ([2]entity.Identity, error) {
	var players [2]entity.Identity
	err := that.read(ctx, id, func(engine *tictactoe.Engine) {
		players = engine.GetPlayers()
	})

	return players, err
}

func (that *GameManager) GetCurrentPlayer(ctx context.Context, id string) (entity.Identity, error) {
	player := entity.NoPlayer
	err := that.read(ctx, id, func(engine *tictactoe.Engine) {
		player = engine.GetCurrentPlayer()
	})

	return player, err
}

func (that *GameManager) GetNumberOfTurns(ctx context.Context, id string) (int, error) {
	var turns int
	err := that.read(ctx, id, func(engine *tictactoe.Engine) {
		turns = engine.GetNumberOfTurns()
	})

	return turns, err
}

func (that *GameManager) GetRows() []string {
	return tictactoe.Rows()
}

// mutate runs op against the session engine, stores the result and publishes its events.
// When storing fails the engine is rolled back and the events are dropped.
func (that *GameManager) mutate(ctx context.Context, id, method string, op func(engine *tictactoe.Engine) error) (*View, error) {
	log := that.logger.With("method", method, "sessionID", id)

	entry, err := that.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.deleted {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	before := entry.engine.Snapshot()

	if err = op(entry.engine); err != nil {
		log.Debug("operation rejected", "error", err)
		return nil, fmt.Errorf("failed to %s: %w", method, err)
	}

	after := entry.engine.Snapshot()
	events := entry.buffer.drain()

	if err = that.repo.CreateOrUpdate(ctx, id, after); err != nil {
		entry.engine.Restore(before)
		log.Error("failed to save session, rolled back", "error", err)

		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.publish(ctx, log, id, events)

	return newView(id, after), nil
}

func (that *GameManager) publish(ctx context.Context, log *slog.Logger, id string, events []tictactoe.Event) {
	for _, event := range events {
		if err := that.publisher.Publish(ctx, id, event); err != nil {
			log.Error("failed to publish event", "type", event.Type, "error", err)
			continue
		}

		if event.Type == tictactoe.EventPayout {
			log.Info("payout published", "winner", event.Player, "amount", event.Amount)
		}
	}
}

// read runs fn under the session lock.
func (that *GameManager) read(ctx context.Context, id string, fn func(engine *tictactoe.Engine)) error {
	entry, err := that.getEntry(ctx, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.deleted {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	fn(entry.engine)

	return nil
}

// getEntry returns the hosted session, loading it from storage on first use.
// Storage is read without the manager lock so one slow load does not hold up other sessions.
func (that *GameManager) getEntry(ctx context.Context, id string) (*sessionEntry, error) {
	that.mu.Lock()
	entry, ok := that.sessions[id]
	that.mu.Unlock()

	if ok {
		return entry, nil
	}

	snapshot, err := that.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	loaded := that.newEntry()
	loaded.engine.Restore(*snapshot)

	that.mu.Lock()
	defer that.mu.Unlock()

	if entry, ok = that.sessions[id]; ok {
		return entry, nil
	}

	that.sessions[id] = loaded

	return loaded, nil
}

func (that *GameManager) newEntry() *sessionEntry {
	buffer := &eventBuffer{}

	return &sessionEntry{
		engine: tictactoe.NewEngine(that.logger, buffer),
		buffer: buffer,
	}
}
