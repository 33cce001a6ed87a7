package core

// WinLine is three positions that win the round when one player holds all of them.
type WinLine [3]Position

// WinLines is the fixed catalog of winning lines: rows, then columns, then diagonals.
// Callers scanning for threats rely on this order to break ties.
var WinLines = [8]WinLine{
	{1, 2, 3}, // top row
	{4, 5, 6}, // middle row
	{7, 8, 9}, // bottom row
	{1, 4, 7}, // left column
	{2, 5, 8}, // middle column
	{3, 6, 9}, // right column
	{1, 5, 9}, // diagonal: top-left to bottom-right
	{3, 5, 7}, // diagonal: top-right to bottom-left
}
