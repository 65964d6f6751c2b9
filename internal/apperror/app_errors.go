package apperror

import "errors"

// Kind names a class of rejected operation.
type Kind string

const (
	KindGameFull            Kind = "GameFull"
	KindPlayerAlreadyInGame Kind = "PlayerAlreadyInGame"
	KindPlayerNotInGame     Kind = "PlayerNotInGame"
	KindGameNotInProgress   Kind = "GameNotInProgress"
	KindNotYourTurn         Kind = "NotYourTurn"
	KindBoardAlreadyDecided Kind = "BoardAlreadyDecided"
	KindCellOccupied        Kind = "CellOccupied"
	KindInvalidMove         Kind = "InvalidMove"
	KindInvalidPlayer       Kind = "InvalidPlayer"
	KindMatchNotFound       Kind = "MatchNotFound"
	KindCorruptSnapshot     Kind = "CorruptSnapshot"
	KindMatchConflict       Kind = "MatchConflict"
)

// Error is a typed rejection. Sentinels below are compared by identity with errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

func (that *Error) Error() string {
	return that.Message
}

var (
	ErrGameFull            = &Error{Kind: KindGameFull, Message: "game is full"}
	ErrPlayerAlreadyInGame = &Error{Kind: KindPlayerAlreadyInGame, Message: "player is already in this game"}
	ErrPlayerNotInGame     = &Error{Kind: KindPlayerNotInGame, Message: "player is not in this game"}
	ErrGameNotInProgress   = &Error{Kind: KindGameNotInProgress, Message: "game is not in progress"}
	ErrNotYourTurn         = &Error{Kind: KindNotYourTurn, Message: "it's not your turn"}
	ErrBoardAlreadyDecided = &Error{Kind: KindBoardAlreadyDecided, Message: "board is already decided"}
	ErrCellOccupied        = &Error{Kind: KindCellOccupied, Message: "cell is already occupied"}
	ErrInvalidMove         = &Error{Kind: KindInvalidMove, Message: "invalid board position"}
	ErrInvalidPlayer       = &Error{Kind: KindInvalidPlayer, Message: "player id is empty"}
	ErrMatchNotFound       = &Error{Kind: KindMatchNotFound, Message: "match not found"}
	ErrCorruptSnapshot     = &Error{Kind: KindCorruptSnapshot, Message: "match snapshot cannot be restored"}
	ErrMatchConflict       = &Error{Kind: KindMatchConflict, Message: "match kept changing, try again"}
)

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return ""
}

// IsRejection reports whether err is a rejected game operation rather than an infrastructure failure.
func IsRejection(err error) bool {
	switch KindOf(err) {
	case "", KindMatchNotFound, KindCorruptSnapshot, KindMatchConflict:
		return false
	default:
		return true
	}
}
