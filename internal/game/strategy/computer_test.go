package strategy

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
)

func newTestComputer(seed int64) *Computer {
	return NewComputer(rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func board(t *testing.T, s string) *core.Board {
	t.Helper()
	b, err := core.ParseBoard(s)
	require.NoError(t, err)
	return b
}

func TestFindCompletingMove(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()

	tests := []struct {
		name      string
		board     string
		player    *core.Player
		wantPos   core.Position
		wantFound bool
	}{
		{"empty board", "...|...|...", computer, core.NoPosition, false},
		{"first row gap at end", "OO.|XX.|...", computer, 3, true},
		{"first row gap in middle", "O.O|XX.|...", computer, 2, true},
		{"second column", "XO.|XO.|...", computer, 8, true},
		{"main diagonal", "O..|.O.|..X", computer, core.NoPosition, false},
		{"anti-diagonal", "..X|.X.|...", human, 7, true},
		{"blocked line is ignored", "XXO|...|...", human, core.NoPosition, false},
		{"catalog order picks the row before the column", "XX.|X..|...", human, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, found := FindCompletingMove(board(t, tt.board), tt.player)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantPos, pos)
		})
	}
}

func TestDecide_Offense(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()

	// computer holds two of {1,2,3}, human none of them
	for _, tc := range []struct {
		board string
		want  core.Position
	}{
		{"OO.|XX.|...", 3},
		{"O.O|X.X|...", 2},
		{".OO|X..|X..", 1},
	} {
		d, err := newTestComputer(1).Decide(board(t, tc.board), human, computer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, d.Position, tc.board)
		assert.Equal(t, TierOffense, d.Tier)
	}
}

func TestDecide_Defense(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()

	for _, tc := range []struct {
		board string
		want  core.Position
	}{
		{"XX.|O..|...", 3},
		{"X.X|.O.|...", 2},
		{".XX|...|O..", 1},
	} {
		d, err := newTestComputer(1).Decide(board(t, tc.board), human, computer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, d.Position, tc.board)
		assert.Equal(t, TierDefense, d.Tier)
	}
}

func TestDecide_OffenseBeatsDefense(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()

	d, err := newTestComputer(1).Decide(board(t, "XX.|OO.|X.."), human, computer)
	require.NoError(t, err)
	assert.Equal(t, core.Position(6), d.Position)
	assert.Equal(t, TierOffense, d.Tier)
}

func TestDecide_Center(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()

	d, err := newTestComputer(1).Decide(core.NewBoard(), human, computer)
	require.NoError(t, err)
	assert.Equal(t, core.Center, d.Position)
	assert.Equal(t, TierCenter, d.Tier)

	d, err = newTestComputer(1).Decide(board(t, "X..|...|..."), human, computer)
	require.NoError(t, err)
	assert.Equal(t, core.Center, d.Position)
}

func TestDecide_Random(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()
	b := board(t, "X..|.O.|...")
	empty := b.EmptyPositions()
	c := newTestComputer(7)

	seen := make(map[core.Position]bool)
	for i := 0; i < 200; i++ {
		d, err := c.Decide(b, human, computer)
		require.NoError(t, err)
		assert.Equal(t, TierRandom, d.Tier)
		assert.Contains(t, empty, d.Position)
		seen[d.Position] = true
	}
	assert.Greater(t, len(seen), 1, "random tier should spread over several cells")
}

func TestDecide_DoesNotMutateBoard(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()
	b := board(t, "XX.|O..|...")
	before := b.String()

	_, err := newTestComputer(1).ChooseMove(b, human, computer)
	require.NoError(t, err)
	assert.Equal(t, before, b.String())
}

func TestDecide_FullBoard(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()

	pos, err := newTestComputer(1).ChooseMove(board(t, "XOX|XOO|OXX"), human, computer)
	assert.ErrorIs(t, err, core.ErrNoMovesAvailable)
	assert.Equal(t, core.NoPosition, pos)
}

func TestDecide_SeededIsReproducible(t *testing.T) {
	human, computer := core.NewHuman(), core.NewComputer()
	b := board(t, "X..|.O.|..X")

	a, err := newTestComputer(99).ChooseMove(b, human, computer)
	require.NoError(t, err)
	c, err := newTestComputer(99).ChooseMove(b, human, computer)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}
