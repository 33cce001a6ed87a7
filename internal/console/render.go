package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
)

const (
	ansiClear = "\033[H\033[2J"
	ansiReset = "\033[0m"
	ansiCyan  = "\033[36m"
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
)

var banner = []string{
	"+-------------------------+",
	"|                         |",
	"| Welcome to Tic Tac Toe! |",
	"|                         |",
	"+-------------------------+",
}

// JoinOr lists items separated by sep with word before the last one:
// [1 2 9] -> "1, 2, or 9"; [1 9] -> "1 or 9"; [9] -> "9".
func JoinOr(items []string, sep, word string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + word + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], sep) + sep + word + " " + items[len(items)-1]
	}
}

// positionsToStrings formats positions for prompts
func positionsToStrings(ps []core.Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

// RenderBoard draws the 3x3 grid:
//
//	     |     |
//	  X  |  O  |
//	     |     |
//	-----+-----+-----
func RenderBoard(w io.Writer, b *core.Board, color bool) {
	fmt.Fprintln(w)
	for row := 0; row < 3; row++ {
		if row > 0 {
			fmt.Fprintln(w, "-----+-----+-----")
		}
		fmt.Fprintln(w, "     |     |")
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			pos := core.FromIndex(row*3 + col)
			cells[col] = paintMark(b.At(pos), color)
		}
		fmt.Fprintf(w, "  %s  |  %s  |  %s\n", cells[0], cells[1], cells[2])
		fmt.Fprintln(w, "     |     |")
	}
	fmt.Fprintln(w)
}

func paintMark(m core.Mark, color bool) string {
	if !color {
		return m.String()
	}
	switch m {
	case core.X:
		return ansiCyan + m.String() + ansiReset
	case core.O:
		return ansiRed + m.String() + ansiReset
	default:
		return m.String()
	}
}

func paint(s, code string, color bool) string {
	if !color {
		return s
	}
	return code + s + ansiReset
}
