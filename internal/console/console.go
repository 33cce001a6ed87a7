package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tictactoe/internal/game"
	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
	"github.com/mitchelldurbincs/tictactoe/internal/history"
)

const invalidChoiceMsg = "Sorry, that's not a valid choice."

// Options controls terminal presentation
type Options struct {
	ClearScreen bool
	Color       bool
}

// Console talks to the human over a line-oriented terminal
type Console struct {
	in     *lineReader
	out    io.Writer
	opts   Options
	logger zerolog.Logger

	// header is the round banner redrawn above the board after each clear
	header  string
	history history.Summary
}

var _ game.UI = (*Console)(nil)

// New creates a console over arbitrary streams
func New(in io.Reader, out io.Writer, opts Options, logger zerolog.Logger) *Console {
	return &Console{
		in:     newLineReader(in),
		out:    out,
		opts:   opts,
		logger: logger.With().Str("component", "Console").Logger(),
	}
}

// NewStdio creates a console on stdin and stdout. Clearing and color are turned
// off when stdout is not a terminal.
func NewStdio(opts Options, logger zerolog.Logger) *Console {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		opts.ClearScreen = false
		opts.Color = false
	}
	return New(os.Stdin, colorable.NewColorableStdout(), opts, logger)
}

// MatchStarting shows the welcome banner
func (c *Console) MatchStarting(m *game.Match) {
	c.clear()
	for _, line := range banner {
		fmt.Fprintln(c.out, paint(line, ansiBold, c.opts.Color))
	}
	fmt.Fprintln(c.out)
	if c.history.Matches > 0 {
		fmt.Fprintf(c.out, "Matches on record: %d (you won %d, I won %d)\n",
			c.history.Matches, c.history.Wins, c.history.Losses)
	}
	fmt.Fprintf(c.out, "You are %s, I am %s. First to %d wins the match.\n",
		m.Human().Marker, m.Computer().Marker, m.WinningScore())
}

// RoundStarting announces the round number and who opens it
func (c *Console) RoundStarting(m *game.Match, r *game.Round) {
	who := "You move"
	if r.FirstMover() == core.RoleComputer {
		who = "I move"
	}
	c.header = fmt.Sprintf("Round %d. %s first.\n%s", r.Index()+1, who, scoreLine(m))
	if !c.opts.ClearScreen {
		fmt.Fprintf(c.out, "\n%s", c.header)
	}
}

// ShowBoard redraws the board before the human's move
func (c *Console) ShowBoard(b *core.Board) {
	if c.opts.ClearScreen {
		c.clear()
		fmt.Fprint(c.out, c.header)
	}
	RenderBoard(c.out, b, c.opts.Color)
}

// ChooseMove prompts until the human names an empty square. End of input is
// reported as game.ErrPlayerQuit.
func (c *Console) ChooseMove(ctx context.Context, b *core.Board, legal []core.Position) (core.Position, error) {
	for {
		fmt.Fprintf(c.out, "Choose a square (%s): ", JoinOr(positionsToStrings(legal), ", ", "or"))

		line, err := c.in.ReadLine(ctx)
		if err != nil {
			fmt.Fprintln(c.out)
			if errors.Is(err, io.EOF) {
				return core.NoPosition, fmt.Errorf("%w: input closed", game.ErrPlayerQuit)
			}
			return core.NoPosition, err
		}

		pos, err := ParseChoice(line, legal)
		if err != nil {
			c.logger.Debug().Str("input", line).Msg("Rejected square choice")
			fmt.Fprintln(c.out, invalidChoiceMsg)
			continue
		}
		return pos, nil
	}
}

// RoundFinished shows the final board, the result and the score
func (c *Console) RoundFinished(m *game.Match, r *game.Round) {
	c.clear()
	RenderBoard(c.out, r.Board(), c.opts.Color)
	fmt.Fprintln(c.out, resultLine(r.Outcome()))
	fmt.Fprint(c.out, scoreLine(m))
}

// PlayAgain asks whether to continue. End of input counts as no.
func (c *Console) PlayAgain(ctx context.Context) (bool, error) {
	for {
		fmt.Fprint(c.out, "Play again? (y/n): ")

		line, err := c.in.ReadLine(ctx)
		if err != nil {
			fmt.Fprintln(c.out)
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}

		again, err := ParseYesNo(line)
		if err != nil {
			fmt.Fprintln(c.out, invalidChoiceMsg)
			continue
		}
		return again, nil
	}
}

// MatchFinished announces the match winner, if any, and says goodbye
func (c *Console) MatchFinished(m *game.Match) {
	if winner, ok := m.Winner(); ok {
		fmt.Fprintln(c.out)
		if winner == core.RoleHuman {
			fmt.Fprintln(c.out, paint("You won the match!", ansiBold, c.opts.Color))
		} else {
			fmt.Fprintln(c.out, paint("I won the match!", ansiBold, c.opts.Color))
		}
	}
	fmt.Fprintln(c.out, "Thanks for playing Tic Tac Toe. Goodbye!")
}

// SetHistory sets the past results shown under the welcome banner
func (c *Console) SetHistory(sum history.Summary) {
	c.history = sum
}

func scoreLine(m *game.Match) string {
	return fmt.Sprintf("Score: You %d - Computer %d (first to %d)\n",
		m.Human().Score, m.Computer().Score, m.WinningScore())
}

func (c *Console) clear() {
	if c.opts.ClearScreen {
		fmt.Fprint(c.out, ansiClear)
	}
}

func resultLine(o rules.Outcome) string {
	switch o {
	case rules.OutcomeHumanWin:
		return "You won! Congratulations!"
	case rules.OutcomeComputerWin:
		return "I won! Take that, human!"
	default:
		return "A tie game. How boring."
	}
}
