package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
)

// Outcome classifies how a round ended.
type Outcome int

const (
	// OutcomeNone means the round is still in progress
	OutcomeNone Outcome = iota
	OutcomeHumanWin
	OutcomeComputerWin
	OutcomeTie
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeHumanWin:
		return "human_win"
	case OutcomeComputerWin:
		return "computer_win"
	case OutcomeTie:
		return "tie"
	default:
		return "unknown"
	}
}

// Winner returns the role that won, and false for ties and rounds in progress
func (o Outcome) Winner() (core.Role, bool) {
	switch o {
	case OutcomeHumanWin:
		return core.RoleHuman, true
	case OutcomeComputerWin:
		return core.RoleComputer, true
	default:
		return core.RoleHuman, false
	}
}

// IsWinner reports whether the player holds all three cells of any win line
func IsWinner(board *core.Board, p *core.Player) bool {
	_, ok := WinningLine(board, p)
	return ok
}

// WinningLine returns the first catalog line the player has completed
func WinningLine(board *core.Board, p *core.Player) (core.WinLine, bool) {
	for _, line := range core.WinLines {
		if board.CountMarksOnLine(p, line) == 3 {
			return line, true
		}
	}
	return core.WinLine{}, false
}

// IsRoundOver reports whether the board is full or either player has won
func IsRoundOver(board *core.Board, human, computer *core.Player) bool {
	return board.IsFull() || IsWinner(board, human) || IsWinner(board, computer)
}

// ClassifyOutcome decides the round result. A human win takes precedence over a
// computer win, which takes precedence over a tie; alternating play never produces
// two winners.
func ClassifyOutcome(board *core.Board, human, computer *core.Player) Outcome {
	switch {
	case IsWinner(board, human):
		return OutcomeHumanWin
	case IsWinner(board, computer):
		return OutcomeComputerWin
	case board.IsFull():
		return OutcomeTie
	default:
		return OutcomeNone
	}
}

// WinConditionChecker wraps outcome classification with logging
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// CheckRoundOver returns whether the round has ended and how
func (wc *WinConditionChecker) CheckRoundOver(board *core.Board, human, computer *core.Player) (bool, Outcome) {
	outcome := ClassifyOutcome(board, human, computer)
	over := outcome != OutcomeNone

	if over {
		ev := wc.logger.Info().Str("outcome", outcome.String()).Str("board", board.String())
		if role, ok := outcome.Winner(); ok {
			p := human
			if role == core.RoleComputer {
				p = computer
			}
			if line, found := WinningLine(board, p); found {
				ev = ev.Ints("winning_line", core.PositionsToInts(line[:]))
			}
		}
		ev.Msg("Round over")
	} else {
		wc.logger.Debug().
			Int("empty_cells", len(board.EmptyPositions())).
			Msg("Round continues")
	}

	return over, outcome
}
