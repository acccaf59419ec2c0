package entity

import (
	"strconv"
	"strings"
)

const BoardSize = 9

// Mark is the content of a single board cell.
type Mark uint8

const (
	Empty Mark = iota
	Player1Mark
	Player2Mark
)

// MarkFor returns the mark placed by the player in the given slot.
func MarkFor(playerIndex int) Mark {
	if playerIndex == 0 {
		return Player1Mark
	}
	return Player2Mark
}

// Board holds the 9 cells, index 0..8 left to right, top to bottom.
type Board [BoardSize]Mark

// String renders the board the way clients compare it, e.g. "1,2,0,0,0,0,0,0,0".
func (that Board) String() string {
	cells := make([]string, len(that))
	for i, cell := range that {
		cells[i] = strconv.Itoa(int(cell))
	}

	return strings.Join(cells, ",")
}

func (that Board) Ints() []int {
	cells := make([]int, len(that))
	for i, cell := range that {
		cells[i] = int(cell)
	}

	return cells
}

func (that Board) IsEmpty() bool {
	for _, cell := range that {
		if cell != Empty {
			return false
		}
	}

	return true
}

// State is the lifecycle stage of a session.
type State string

const (
	StateAwaitingPlayers State = "awaiting_players"
	StateReady           State = "ready"
	StateInProgress      State = "in_progress"
	StateWon             State = "won"
	StateDrawn           State = "drawn"
)

func (that State) IsFinished() bool {
	return that == StateWon || that == StateDrawn
}

// Session is the single live game instance owned by an engine.
type Session struct {
	Board              Board       `json:"board"`
	Players            [2]Identity `json:"players"`
	CurrentPlayerIndex int         `json:"current_player_index"`
	TurnCount          int         `json:"turn_count"`
	Started            bool        `json:"started"`
	State              State       `json:"state"`
	Winner             Identity    `json:"winner,omitempty"`
}

func NewSession() *Session {
	return &Session{
		State: StateAwaitingPlayers,
	}
}

// BoundPlayers returns how many player slots are taken.
func (that *Session) BoundPlayers() int {
	bound := 0
	for _, player := range that.Players {
		if !player.IsNone() {
			bound++
		}
	}

	return bound
}

// SlotOf returns the slot index of the identity, or -1.
func (that *Session) SlotOf(id Identity) int {
	if id.IsNone() {
		return -1
	}

	for i, player := range that.Players {
		if player == id {
			return i
		}
	}

	return -1
}

// FreeSlot returns the first unbound slot index, or -1 when both are taken.
func (that *Session) FreeSlot() int {
	for i, player := range that.Players {
		if player.IsNone() {
			return i
		}
	}

	return -1
}

func (that *Session) CurrentPlayer() Identity {
	return that.Players[that.CurrentPlayerIndex]
}

// OtherPlayer returns the player that is not at CurrentPlayerIndex.
func (that *Session) OtherPlayer() Identity {
	return that.Players[1-that.CurrentPlayerIndex]
}
