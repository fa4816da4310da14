// internal/game/errors.go
//
// Engine error taxonomy. Every rule violation is reported with a stable
// kind so the transport layer can map it to a status code without string
// matching. A failed action never mutates room state.

package game

import (
	"errors"
	"fmt"
)

// Kind identifies a class of engine error.
type Kind string

const (
	KindRoomNotFound          Kind = "room_not_found"
	KindPlayerNotFound        Kind = "player_not_found"
	KindRoomFull              Kind = "room_full"
	KindWrongPhase            Kind = "wrong_phase"
	KindNotYourTurn           Kind = "not_your_turn"
	KindCardNotInHand         Kind = "card_not_in_hand"
	KindInvalidSelectionCount Kind = "invalid_selection_count"
	KindInvalidCardSelection  Kind = "invalid_card_selection"
	KindDeckExhausted         Kind = "deck_exhausted"
)

// Error is a rule-violation error carrying its kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds an engine error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain.
// Returns "" for errors that did not originate in the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
