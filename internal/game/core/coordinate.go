package core

import "fmt"

// Position identifies a board cell. Positions run 1..9 in row-major order:
//
//	1 | 2 | 3
//	4 | 5 | 6
//	7 | 8 | 9
type Position int

const (
	MinPosition Position = 1
	MaxPosition Position = 9

	// Center is the middle cell, preferred by the computer when nothing is urgent.
	Center Position = 5

	// NoPosition is returned alongside an error when no cell could be chosen.
	NoPosition Position = 0
)

// BoardSize is the number of cells on the board
const BoardSize = 9

// positionIndex maps a semantic position to its slot in the board array.
var positionIndex = [BoardSize + 1]int{-1, 0, 1, 2, 3, 4, 5, 6, 7, 8}

// AllPositions lists every position in ascending order
var AllPositions = [BoardSize]Position{1, 2, 3, 4, 5, 6, 7, 8, 9}

// IsValid checks if the position names a cell on the board
func (p Position) IsValid() bool {
	return p >= MinPosition && p <= MaxPosition
}

// Index converts the position to a board array index (0..8)
func (p Position) Index() int {
	if !p.IsValid() {
		return -1
	}
	return positionIndex[p]
}

// FromIndex creates a position from a board array index
func FromIndex(idx int) Position {
	return Position(idx + 1)
}

// Row returns the zero-based row of the position
func (p Position) Row() int { return p.Index() / 3 }

// Col returns the zero-based column of the position
func (p Position) Col() int { return p.Index() % 3 }

func (p Position) String() string {
	return fmt.Sprintf("%d", int(p))
}
