package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/rules"
	"github.com/mitchelldurbincs/tictactoe/internal/testutil"
)

func newTestRound(first core.Role) *Round {
	human, computer := testutil.NewPlayers()
	return newRound(0, first, human, computer, rules.NewWinConditionChecker(testutil.NopLogger()))
}

func applyAll(t *testing.T, r *Round, positions ...core.Position) {
	t.Helper()
	for _, p := range positions {
		require.NoError(t, r.Apply(p), "move to %d", p)
	}
}

func TestRound_ApplyAlternatesTurns(t *testing.T) {
	r := newTestRound(core.RoleComputer)
	assert.Equal(t, core.RoleComputer, r.Turn())
	assert.Equal(t, 1, r.TurnNumber())

	require.NoError(t, r.Apply(5))
	assert.Equal(t, core.O, r.Board().At(5))
	assert.Equal(t, core.RoleHuman, r.Turn())

	require.NoError(t, r.Apply(1))
	assert.Equal(t, core.X, r.Board().At(1))
	assert.Equal(t, core.RoleComputer, r.Turn())
	assert.Equal(t, 3, r.TurnNumber())
	assert.False(t, r.Over())
	assert.Equal(t, rules.OutcomeNone, r.Outcome())
}

func TestRound_HumanWinEndsRound(t *testing.T) {
	r := newTestRound(core.RoleHuman)
	applyAll(t, r, 1, 4, 2, 5, 3)

	assert.True(t, r.Over())
	assert.Equal(t, rules.OutcomeHumanWin, r.Outcome())
	assert.Nil(t, r.LegalMoves())
	assert.Len(t, r.Moves(), 5)

	err := r.Apply(9)
	assert.ErrorIs(t, err, core.ErrRoundOver)
	assert.True(t, r.Board().IsEmptyAt(9), "over is absorbing")
}

func TestRound_Tie(t *testing.T) {
	r := newTestRound(core.RoleHuman)
	applyAll(t, r, 1, 2, 3, 5, 4, 7, 8, 6, 9)

	assert.True(t, r.Over())
	assert.Equal(t, rules.OutcomeTie, r.Outcome())
	assert.True(t, r.Board().IsFull())
}

func TestRound_OccupiedCellKeepsTurn(t *testing.T) {
	r := newTestRound(core.RoleHuman)
	require.NoError(t, r.Apply(5))

	err := r.Apply(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCellOccupied)
	assert.Equal(t, core.RoleComputer, r.Turn())
	assert.Len(t, r.Moves(), 1)

	assert.ErrorIs(t, r.Apply(0), core.ErrInvalidPosition)
}

func TestRound_MovesAreCopied(t *testing.T) {
	r := newTestRound(core.RoleHuman)
	applyAll(t, r, 5, 1)

	moves := r.Moves()
	require.Len(t, moves, 2)
	assert.Equal(t, Move{Turn: 1, Role: core.RoleHuman, Position: 5}, moves[0])
	assert.Equal(t, Move{Turn: 2, Role: core.RoleComputer, Position: 1}, moves[1])

	moves[0].Position = 9
	assert.Equal(t, core.Position(5), r.Moves()[0].Position)
}
