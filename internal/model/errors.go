package model

import "errors"

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrNotPlayable  = errors.New("square is not playable")
	ErrIllegalMove  = errors.New("illegal move")
	ErrNoMoves      = errors.New("no legal moves")
	ErrInvalidDepth = errors.New("search depth must be at least 1")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrGameOver     = errors.New("game is over")
	ErrGameFull     = errors.New("game is full")
	ErrNotInGame    = errors.New("player not in game")
	ErrSearching    = errors.New("computer is already thinking")

	ErrAlreadyConnected = errors.New("player already has a live connection")
)

// IllegalMoveError carries the reason a proposed move was rejected.
type IllegalMoveError struct {
	Move   Move
	Reason Reason
}

func (e *IllegalMoveError) Error() string {
	return "illegal move " + e.Move.String() + ": " + e.Reason.String()
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}
