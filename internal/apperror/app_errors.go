package apperror

import "errors"

// Kind groups errors by the rule they violate.
type Kind string

const (
	KindUnknown   Kind = ""
	KindAdmission Kind = "AdmissionError"
	KindState     Kind = "StateError"
	KindTurn      Kind = "TurnError"
	KindMove      Kind = "MoveError"
	KindFunds     Kind = "FundsError"
	KindNotFound  Kind = "NotFoundError"
)

// Error is a sentinel error tagged with its Kind.
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (that *Error) Error() string {
	return that.msg
}

func (that *Error) Kind() Kind {
	return that.kind
}

var (
	ErrSlotsFull     = newError(KindAdmission, "both player slots are taken")
	ErrAlreadyJoined = newError(KindAdmission, "player already joined")
	ErrNoIdentity    = newError(KindAdmission, "player identity is required")

	ErrGameIsNotStarted = newError(KindState, "game is not started")
	ErrAlreadyStarted   = newError(KindState, "game is already started")
	ErrNotEnoughPlayers = newError(KindState, "not enough players")
	ErrGameFinished     = newError(KindState, "game is already finished")
	ErrBoardNotEmpty    = newError(KindState, "board is not empty")

	ErrNotYourTurn = newError(KindTurn, "it's not your turn")

	ErrInvalidCell  = newError(KindMove, "invalid cell index")
	ErrCellOccupied = newError(KindMove, "cell is already occupied")

	ErrNonPositiveDeposit = newError(KindFunds, "deposit amount must be positive")
	ErrDepositOverflow    = newError(KindFunds, "deposit overflows balance")

	ErrSessionNotFound = newError(KindNotFound, "session not found")
)

// KindOf returns the Kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindUnknown
}
