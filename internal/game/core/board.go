package core

import (
	"fmt"
	"strings"
)

// Mark is the occupant of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Board is the 3x3 grid, stored row-major. The zero value is an empty board.
type Board struct {
	cells [BoardSize]Mark
}

// NewBoard returns an empty board
func NewBoard() *Board {
	return &Board{}
}

// At returns the mark occupying a position; Empty for positions off the board.
func (b *Board) At(p Position) Mark {
	if !p.IsValid() {
		return Empty
	}
	return b.cells[p.Index()]
}

// IsEmptyAt reports whether the cell at p is unoccupied
func (b *Board) IsEmptyAt(p Position) bool {
	return p.IsValid() && b.cells[p.Index()] == Empty
}

// MarkAt assigns a mark to an empty cell. Cells are never overwritten or cleared.
func (b *Board) MarkAt(p Position, m Mark) error {
	if !p.IsValid() {
		return fmt.Errorf("position %d: %w", int(p), ErrInvalidPosition)
	}
	if m == Empty {
		return fmt.Errorf("position %d: %w", int(p), ErrInvalidMark)
	}
	idx := p.Index()
	if b.cells[idx] != Empty {
		return fmt.Errorf("position %d holds %s: %w", int(p), b.cells[idx], ErrCellOccupied)
	}
	b.cells[idx] = m
	return nil
}

// EmptyPositions returns the unoccupied positions in ascending order
func (b *Board) EmptyPositions() []Position {
	empty := make([]Position, 0, BoardSize)
	for i, c := range b.cells {
		if c == Empty {
			empty = append(empty, FromIndex(i))
		}
	}
	return empty
}

// IsFull reports whether no empty cells remain
func (b *Board) IsFull() bool {
	return len(b.EmptyPositions()) == 0
}

// CountMarksOnLine counts how many cells of line carry the player's marker (0..3)
func (b *Board) CountMarksOnLine(p *Player, line WinLine) int {
	return b.CountMarkOnLine(p.Marker, line)
}

// CountMarkOnLine counts how many cells of line carry m
func (b *Board) CountMarkOnLine(m Mark, line WinLine) int {
	count := 0
	for _, pos := range line {
		if b.At(pos) == m {
			count++
		}
	}
	return count
}

// LineHasOpponentMark reports whether any cell of line is held by the player's opponent.
// A line without opponent marks is still winnable for the player.
func (b *Board) LineHasOpponentMark(line WinLine, p *Player) bool {
	opponent := p.Marker.Opponent()
	for _, pos := range line {
		if b.At(pos) == opponent {
			return true
		}
	}
	return false
}

// EmptyOnLine returns the first empty position of line, if any
func (b *Board) EmptyOnLine(line WinLine) (Position, bool) {
	for _, pos := range line {
		if b.IsEmptyAt(pos) {
			return pos, true
		}
	}
	return NoPosition, false
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// String renders the board compactly, e.g. "XO.|.X.|..O", for logs and test output.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize + 2)
	for i, c := range b.cells {
		if i > 0 && i%3 == 0 {
			sb.WriteByte('|')
		}
		if c == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

// ParseBoard builds a board from the String form. Separators and whitespace are
// ignored; '.', '-' and '_' denote empty cells.
func ParseBoard(s string) (*Board, error) {
	b := NewBoard()
	idx := 0
	for _, r := range s {
		var m Mark
		switch r {
		case '|', ' ', '\n', '\t':
			continue
		case 'X', 'x':
			m = X
		case 'O', 'o':
			m = O
		case '.', '-', '_':
			m = Empty
		default:
			return nil, fmt.Errorf("unexpected cell %q: %w", r, ErrInvalidMark)
		}
		if idx >= BoardSize {
			return nil, fmt.Errorf("board %q has more than %d cells: %w", s, BoardSize, ErrInvalidPosition)
		}
		b.cells[idx] = m
		idx++
	}
	if idx != BoardSize {
		return nil, fmt.Errorf("board %q has %d cells, want %d: %w", s, idx, BoardSize, ErrInvalidPosition)
	}
	return b, nil
}
