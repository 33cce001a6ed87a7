package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Board {
	t.Helper()
	b, err := ParseBoard(s)
	require.NoError(t, err)
	return b
}

func TestNewBoard(t *testing.T) {
	board := NewBoard()

	assert.Len(t, board.EmptyPositions(), BoardSize)
	assert.False(t, board.IsFull())
	for _, p := range AllPositions {
		assert.Equal(t, Empty, board.At(p), "position %d should be empty", p)
	}
}

func TestBoard_MarkAt(t *testing.T) {
	for _, p := range AllPositions {
		t.Run(p.String(), func(t *testing.T) {
			board := NewBoard()
			require.NoError(t, board.MarkAt(p, X))

			assert.Equal(t, X, board.At(p))
			assert.NotContains(t, board.EmptyPositions(), p)
			assert.Len(t, board.EmptyPositions(), BoardSize-1)
		})
	}
}

func TestBoard_MarkAtRejectsOverwrite(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.MarkAt(5, X))

	err := board.MarkAt(5, O)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCellOccupied))
	assert.Equal(t, X, board.At(5), "occupied cell must keep its mark")
}

func TestBoard_MarkAtInvalidInput(t *testing.T) {
	board := NewBoard()

	tests := []struct {
		name string
		pos  Position
		mark Mark
		want error
	}{
		{"position zero", 0, X, ErrInvalidPosition},
		{"position ten", 10, O, ErrInvalidPosition},
		{"negative position", -3, X, ErrInvalidPosition},
		{"empty mark", 1, Empty, ErrInvalidMark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := board.MarkAt(tt.pos, tt.mark)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, board.EmptyPositions(), BoardSize)
}

func TestBoard_EmptyPositionsAscending(t *testing.T) {
	board := mustParse(t, "X.O|.X.|O..")

	assert.Equal(t, []Position{2, 4, 6, 8, 9}, board.EmptyPositions())
}

func TestBoard_IsFull(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  bool
	}{
		{"empty board is not full", "...|...|...", false},
		{"one cell left", "XOX|OXO|OX.", false},
		{"full board", "XOX|XOO|OXX", true},
		{"full board with winner", "XXX|OOX|OXO", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := mustParse(t, tt.board)
			assert.Equal(t, tt.want, board.IsFull())
			assert.Equal(t, tt.want, len(board.EmptyPositions()) == 0)
		})
	}
}

func TestBoard_CountMarksOnLine(t *testing.T) {
	human := NewHuman()
	computer := NewComputer()
	board := mustParse(t, "XXX|OO.|..O")

	for _, line := range WinLines {
		for _, p := range []*Player{human, computer} {
			count := board.CountMarksOnLine(p, line)
			assert.GreaterOrEqual(t, count, 0)
			assert.LessOrEqual(t, count, 3)

			holdsAll := true
			for _, pos := range line {
				if board.At(pos) != p.Marker {
					holdsAll = false
				}
			}
			assert.Equal(t, holdsAll, count == 3, "line %v player %s", line, p.Role)
		}
	}

	assert.Equal(t, 3, board.CountMarksOnLine(human, WinLines[0]))
	assert.Equal(t, 2, board.CountMarksOnLine(computer, WinLines[1]))
	assert.Equal(t, 2, board.CountMarksOnLine(computer, WinLines[6]))
	assert.Equal(t, 0, board.CountMarksOnLine(human, WinLines[2]))
}

func TestBoard_LineHasOpponentMark(t *testing.T) {
	human := NewHuman()
	computer := NewComputer()
	board := mustParse(t, "XX.|.O.|...")

	assert.False(t, board.LineHasOpponentMark(WinLines[0], human), "top row has no O")
	assert.True(t, board.LineHasOpponentMark(WinLines[0], computer), "top row has X")
	assert.True(t, board.LineHasOpponentMark(WinLines[1], human))
	assert.False(t, board.LineHasOpponentMark(WinLines[2], human), "bottom row is empty")
	assert.False(t, board.LineHasOpponentMark(WinLines[2], computer))
}

func TestBoard_EmptyOnLine(t *testing.T) {
	board := mustParse(t, "XO.|...|...")

	pos, ok := board.EmptyOnLine(WinLines[0])
	assert.True(t, ok)
	assert.Equal(t, Position(3), pos)

	full := mustParse(t, "XOX|...|...")
	_, ok = full.EmptyOnLine(WinLines[0])
	assert.False(t, ok)
}

func TestBoard_CloneIsIndependent(t *testing.T) {
	board := mustParse(t, "X..|...|...")
	clone := board.Clone()
	require.NoError(t, clone.MarkAt(9, O))

	assert.Equal(t, Empty, board.At(9))
	assert.Equal(t, O, clone.At(9))
}

func TestBoard_StringRoundTrip(t *testing.T) {
	board := NewBoard()
	require.NoError(t, board.MarkAt(1, X))
	require.NoError(t, board.MarkAt(5, O))
	require.NoError(t, board.MarkAt(9, X))

	assert.Equal(t, "X..|.O.|..X", board.String())
	assert.Equal(t, board, mustParse(t, board.String()))
}

func TestParseBoard_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too short", "XO."},
		{"too long", "XO.|...|...|X"},
		{"bad rune", "XQ.|...|..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoard(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, O, X.Opponent())
	assert.Equal(t, X, O.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}
