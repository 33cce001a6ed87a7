package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPosition  = errors.New("invalid position")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrRoundOver        = errors.New("round is over")
	ErrMatchOver        = errors.New("match is over")
	ErrNoRoundActive    = errors.New("no round in progress")
	ErrNoMovesAvailable = errors.New("no moves available")
)

// GameError carries the match context in which an operation failed.
type GameError struct {
	Round     int
	Turn      int
	Role      Role
	Operation string
	Err       error
}

func (e *GameError) Error() string {
	return fmt.Sprintf("round %d turn %d: %s %s: %v", e.Round, e.Turn, e.Role, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }

// NewGameError wraps err with round, turn and player context
func NewGameError(round, turn int, role Role, operation string, err error) *GameError {
	return &GameError{
		Round:     round,
		Turn:      turn,
		Role:      role,
		Operation: operation,
		Err:       err,
	}
}

// WrapMoveError adds the mover and target cell to a move failure. Nil stays nil.
func WrapMoveError(role Role, pos Position, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: move to %d: %w", role, int(pos), err)
}

// WrapRoundError adds the round index and phase to a failure. Nil stays nil.
func WrapRoundError(round int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("round %d [%s]: %w", round, phase, err)
}
