package tictactoe

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-escrow/internal/entity"
)

// Snapshot is a value copy of everything an engine holds.
type Snapshot struct {
	Session  entity.Session            `json:"session"`
	Balances map[entity.Identity]int64 `json:"balances"`
}

// Engine owns one session and its escrow ledger and serializes every operation on them.
// A failed call leaves both untouched.
type Engine struct {
	mu     sync.Mutex
	logger *slog.Logger
	sink   EventSink

	session *entity.Session
	ledger  *entity.Ledger
}

func NewEngine(logger *slog.Logger, sink EventSink) *Engine {
	if sink == nil {
		sink = nopSink{}
	}

	return &Engine{
		logger:  logger.With("component", "engine"),
		sink:    sink,
		session: entity.NewSession(),
		ledger:  entity.NewLedger(),
	}
}

// JoinGame binds the identity to the first free player slot.
func (that *Engine) JoinGame(id entity.Identity) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := that.session

	switch {
	case id.IsNone():
		return apperror.ErrNoIdentity
	case session.Started:
		return apperror.ErrAlreadyStarted
	case session.SlotOf(id) >= 0:
		return fmt.Errorf("%w: %s", apperror.ErrAlreadyJoined, id)
	}

	slot := session.FreeSlot()
	if slot < 0 {
		return apperror.ErrSlotsFull
	}

	session.Players[slot] = id
	if session.BoundPlayers() == len(session.Players) {
		session.State = entity.StateReady
	}

	that.sink.Publish(Event{Type: EventPlayerJoined, Player: id, Position: &slot})

	return nil
}

// ResetPlayers unbinds both slots. The board and the ledger are left as they are.
func (that *Engine) ResetPlayers() {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := that.session
	session.Players = [2]entity.Identity{entity.NoPlayer, entity.NoPlayer}
	session.CurrentPlayerIndex = 0
	session.Started = false
	session.State = entity.StateAwaitingPlayers

	that.sink.Publish(Event{Type: EventPlayersReset})
}

// ResetBoard clears the board and turn counter for a new round. The ledger is left as it is.
func (that *Engine) ResetBoard() {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := that.session
	session.Board = entity.Board{}
	session.TurnCount = 0
	session.CurrentPlayerIndex = 0
	session.Started = false
	session.Winner = entity.NoPlayer

	session.State = entity.StateAwaitingPlayers
	if session.BoundPlayers() == len(session.Players) {
		session.State = entity.StateReady
	}

	that.sink.Publish(Event{Type: EventBoardReset})
}

func (that *Engine) StartGame() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := that.session

	switch {
	case session.State.IsFinished():
		return apperror.ErrGameFinished
	case session.Started:
		return apperror.ErrAlreadyStarted
	case session.BoundPlayers() < len(session.Players):
		return apperror.ErrNotEnoughPlayers
	case !session.Board.IsEmpty():
		return apperror.ErrBoardNotEmpty
	}

	session.CurrentPlayerIndex = 0
	session.Started = true
	session.State = entity.StateInProgress

	that.sink.Publish(Event{Type: EventGameStarted, Player: session.CurrentPlayer()})

	return nil
}

// ToggleCurrentPlayer flips the turn owner without any checks.
func (that *Engine) ToggleCurrentPlayer() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.session.CurrentPlayerIndex = 1 - that.session.CurrentPlayerIndex

	that.sink.Publish(Event{Type: EventCurrentPlayerToggled, Player: that.session.CurrentPlayer()})
}

// Move places the caller's mark at position and settles the game when it ends.
func (that *Engine) Move(id entity.Identity, position int) (Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.validateMove(id, position); err != nil {
		return Outcome{}, fmt.Errorf("invalid move: %w", err)
	}

	session := that.session
	session.Board[position] = entity.MarkFor(session.CurrentPlayerIndex)
	session.TurnCount++

	that.sink.Publish(Event{Type: EventMoveMade, Player: id, Position: &position, Turn: session.TurnCount})

	outcome := Detect(session.Board, session.TurnCount)

	switch outcome.Result {
	case ResultWin:
		that.settleWin(id, outcome)
	case ResultDraw:
		session.State = entity.StateDrawn
		that.sink.Publish(Event{Type: EventGameDraw, Turn: session.TurnCount})
		that.logger.Info("game drawn, stakes stay in escrow", "held", that.ledger.Total())
	default:
		session.CurrentPlayerIndex = 1 - session.CurrentPlayerIndex
	}

	return outcome, nil
}

func (that *Engine) validateMove(id entity.Identity, position int) error {
	session := that.session

	if session.State.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !session.Started {
		return apperror.ErrGameIsNotStarted
	}

	if position < 0 || position >= len(session.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, position)
	}

	if session.Board[position] != entity.Empty {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, position)
	}

	if id.IsNone() || session.CurrentPlayer() != id {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// settleWin closes the game and pays the whole pot to the mover. The turn does not advance.
func (that *Engine) settleWin(winner entity.Identity, outcome Outcome) {
	session := that.session
	session.State = entity.StateWon
	session.Winner = winner

	line := outcome.Line
	that.sink.Publish(Event{Type: EventGameWon, Player: winner, Turn: session.TurnCount, Line: &line})

	payout := that.ledger.Payout(winner, session.OtherPlayer())
	that.sink.Publish(Event{Type: EventPayout, Player: payout.Winner, Amount: payout.Amount})

	that.logger.Info("game won", "winner", winner, "payout", payout.Amount, "turns", session.TurnCount)
}

// Deposit credits amount to the identity's escrow balance. Allowed in any state.
func (that *Engine) Deposit(id entity.Identity, amount int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if id.IsNone() {
		return apperror.ErrNoIdentity
	}

	if err := that.ledger.Deposit(id, amount); err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}

	that.sink.Publish(Event{Type: EventDeposit, Player: id, Amount: amount})

	return nil
}

// GetBalance returns the total value held in escrow.
func (that *Engine) GetBalance() int64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.ledger.Total()
}

func (that *Engine) BalanceOf(id entity.Identity) int64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.ledger.BalanceOf(id)
}

func (that *Engine) GetBoard() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Board
}

func (that *Engine) GetPlayers() [2]entity.Identity {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Players
}

func (that *Engine) GetCurrentPlayer() entity.Identity {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.CurrentPlayer()
}

func (that *Engine) GetNumberOfTurns() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.TurnCount
}

func (that *Engine) GetRows() []string {
	return Rows()
}

func (that *Engine) State() entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.State
}

func (that *Engine) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return Snapshot{
		Session:  *that.session,
		Balances: that.ledger.Balances(),
	}
}

// Restore replaces the engine state with a snapshot. No events are emitted.
func (that *Engine) Restore(snapshot Snapshot) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := snapshot.Session
	if session.State == "" {
		session.State = entity.StateAwaitingPlayers
	}

	if session.CurrentPlayerIndex != 0 && session.CurrentPlayerIndex != 1 {
		that.logger.Warn("restored snapshot has an invalid current player, reset to first", "index", session.CurrentPlayerIndex)
		session.CurrentPlayerIndex = 0
	}

	that.session = &session
	that.ledger = entity.NewLedgerFromBalances(snapshot.Balances)
}
