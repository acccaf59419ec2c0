package tictactoe

import "github.com/rocketscienceinc/tictactoe-escrow/internal/entity"

type EventType string

const (
	EventPlayerJoined         EventType = "playerJoined"
	EventPlayersReset         EventType = "playersReset"
	EventGameStarted          EventType = "gameStarted"
	EventCurrentPlayerToggled EventType = "currentPlayerToggled"
	EventMoveMade             EventType = "moveMade"
	EventGameWon              EventType = "gameWon"
	EventGameDraw             EventType = "gameDraw"
	EventDeposit              EventType = "deposit"
	EventPayout               EventType = "payout"
	EventBoardReset           EventType = "boardReset"
)

// Event describes an accepted state change. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType       `json:"type"`
	Player   entity.Identity `json:"player,omitempty"`
	Position *int            `json:"position,omitempty"`
	Amount   int64           `json:"amount,omitempty"`
	Turn     int             `json:"turn,omitempty"`
	Line     *[3]int         `json:"line,omitempty"`
}

// EventSink receives engine events in order. Publish is called with the engine
// lock held and must not call back into the engine.
type EventSink interface {
	Publish(event Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}

