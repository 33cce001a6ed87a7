package game

import (
	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
)

// Move is a single mark placed during a round
type Move struct {
	Turn     int
	Role     core.Role
	Position core.Position
}

// Round is one game on a fresh board. It is InProgress until a player completes a
// line or the board fills, after which it is Over and rejects further moves.
type Round struct {
	index      int
	board      *core.Board
	human      *core.Player
	computer   *core.Player
	firstMover core.Role
	turn       core.Role
	over       bool
	outcome    rules.Outcome
	scored     bool
	moves      []Move
	checker    *rules.WinConditionChecker
}

func newRound(index int, firstMover core.Role, human, computer *core.Player, checker *rules.WinConditionChecker) *Round {
	return &Round{
		index:      index,
		board:      core.NewBoard(),
		human:      human,
		computer:   computer,
		firstMover: firstMover,
		turn:       firstMover,
		outcome:    rules.OutcomeNone,
		moves:      make([]Move, 0, core.BoardSize),
		checker:    checker,
	}
}

// Apply marks pos for the player whose turn it is. If the round is not over
// afterwards, the turn passes to the other player.
func (r *Round) Apply(pos core.Position) error {
	if r.over {
		return core.ErrRoundOver
	}

	mover := r.Player(r.turn)
	if err := r.board.MarkAt(pos, mover.Marker); err != nil {
		return core.WrapMoveError(r.turn, pos, err)
	}
	r.moves = append(r.moves, Move{Turn: len(r.moves) + 1, Role: r.turn, Position: pos})

	if over, outcome := r.checker.CheckRoundOver(r.board, r.human, r.computer); over {
		r.over = true
		r.outcome = outcome
		return nil
	}

	r.turn = r.turn.Other()
	return nil
}

// Player returns the participant with the given role
func (r *Round) Player(role core.Role) *core.Player {
	if role == core.RoleComputer {
		return r.computer
	}
	return r.human
}

// Index is the zero-based position of this round in the match
func (r *Round) Index() int { return r.index }

// Board returns the live board. Callers must not mark it directly.
func (r *Round) Board() *core.Board { return r.board }

// FirstMover is the role that placed the first mark
func (r *Round) FirstMover() core.Role { return r.firstMover }

// Turn is the role expected to move next. Once the round is over it is the role
// that made the final move.
func (r *Round) Turn() core.Role { return r.turn }

// TurnNumber is the one-based number of the next move
func (r *Round) TurnNumber() int { return len(r.moves) + 1 }

// Over reports whether the round has ended
func (r *Round) Over() bool { return r.over }

// Outcome is OutcomeNone while the round is in progress
func (r *Round) Outcome() rules.Outcome { return r.outcome }

// Moves returns a copy of the moves played so far
func (r *Round) Moves() []Move {
	moves := make([]Move, len(r.moves))
	copy(moves, r.moves)
	return moves
}

// LegalMoves lists the empty cells, or nil once the round is over
func (r *Round) LegalMoves() []core.Position {
	return rules.LegalMoves(r.board, r.human, r.computer)
}
