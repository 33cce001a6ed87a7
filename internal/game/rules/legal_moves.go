package rules

import "github.com/mitchelldurbincs/tictactoe/internal/game/core"

// LegalMoves returns the positions a player may mark, in ascending order.
// No moves are legal once the round is over.
func LegalMoves(board *core.Board, human, computer *core.Player) []core.Position {
	if IsRoundOver(board, human, computer) {
		return nil
	}
	return board.EmptyPositions()
}

// IsLegalMove reports whether p is on the board and currently empty
func IsLegalMove(board *core.Board, p core.Position) bool {
	return p.IsValid() && board.IsEmptyAt(p)
}
