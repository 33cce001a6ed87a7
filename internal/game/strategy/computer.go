package strategy

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
)

// Tier names the rule that produced a move.
type Tier string

const (
	TierOffense Tier = "offense"
	TierDefense Tier = "defense"
	TierCenter  Tier = "center"
	TierRandom  Tier = "random"
)

// Decision is a chosen cell together with the rule that chose it.
type Decision struct {
	Position core.Position
	Tier     Tier
}

// Computer picks moves by fixed priority: win if possible, else block, else take the
// center, else play any empty cell at random. It does not search ahead.
type Computer struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewComputer creates a heuristic player. A nil rng is replaced by a time-seeded one.
func NewComputer(rng *rand.Rand, logger zerolog.Logger) *Computer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Computer{
		rng:    rng,
		logger: logger.With().Str("component", "ComputerStrategy").Logger(),
	}
}

// ChooseMove returns the computer's next cell
func (c *Computer) ChooseMove(board *core.Board, human, computer *core.Player) (core.Position, error) {
	d, err := c.Decide(board, human, computer)
	return d.Position, err
}

// Decide runs the heuristic and reports which tier fired
func (c *Computer) Decide(board *core.Board, human, computer *core.Player) (Decision, error) {
	empty := board.EmptyPositions()
	if len(empty) == 0 {
		return Decision{Position: core.NoPosition}, core.ErrNoMovesAvailable
	}

	var d Decision
	if pos, ok := FindCompletingMove(board, computer); ok {
		d = Decision{Position: pos, Tier: TierOffense}
	} else if pos, ok := FindCompletingMove(board, human); ok {
		d = Decision{Position: pos, Tier: TierDefense}
	} else if board.IsEmptyAt(core.Center) {
		d = Decision{Position: core.Center, Tier: TierCenter}
	} else {
		d = Decision{Position: empty[c.rng.Intn(len(empty))], Tier: TierRandom}
	}

	c.logger.Debug().
		Str("board", board.String()).
		Str("tier", string(d.Tier)).
		Int("position", int(d.Position)).
		Msg("Computer chose move")

	return d, nil
}

// FindCompletingMove scans the win lines in catalog order for one where the player
// holds two cells and the opponent none, and returns the remaining empty cell.
func FindCompletingMove(board *core.Board, p *core.Player) (core.Position, bool) {
	for _, line := range core.WinLines {
		if board.CountMarksOnLine(p, line) != 2 || board.LineHasOpponentMark(line, p) {
			continue
		}
		if pos, ok := board.EmptyOnLine(line); ok {
			return pos, true
		}
	}
	return core.NoPosition, false
}
