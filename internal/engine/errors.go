// internal/engine/errors.go
package engine

import "errors"

// Validation errors are caller-attributable: the move is rejected, the game
// state is left untouched, and the room keeps running.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrCardNotInHand       = errors.New("card not in hand")
	ErrInvalidPlay         = errors.New("invalid card play")
	ErrInsufficientPlayers = errors.New("not enough players to start game")
	ErrInsufficientCards   = errors.New("not enough cards to deal")
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrRoomNotJoinable     = errors.New("room is not accepting players")
	ErrRoomFull            = errors.New("room is full")
	ErrInvalidRoomConfig   = errors.New("invalid room configuration")
)

// Integrity errors mean an invariant broke. They are fatal to the game
// instance and must not be retried.
var (
	ErrDeckExhausted = errors.New("draw and discard piles exhausted")
)

// IsValidation reports whether err is a caller-attributable rejection rather
// than an engine fault.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrRoomNotFound, ErrGameNotFound, ErrNotYourTurn, ErrCardNotInHand,
		ErrInvalidPlay, ErrInsufficientPlayers, ErrInsufficientCards,
		ErrGameAlreadyFinished, ErrRoomNotJoinable, ErrRoomFull,
		ErrInvalidRoomConfig,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// IsIntegrity reports whether err indicates a broken game invariant.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrDeckExhausted)
}
