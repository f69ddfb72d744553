package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallBoard is the 2×2 layout
//
//	O:RightIsFox  F:UpIsFox
//	O:UpIsOwl     .
func smallBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(2, Address{1, 1}, []TileSpec{
		{Address: Address{0, 0}, Species: Owl, Statement: RightIsFox},
		{Address: Address{1, 0}, Species: Fox, Statement: UpIsFox},
		{Address: Address{0, 1}, Species: Owl, Statement: UpIsOwl},
	})
	require.NoError(t, err)
	return b
}

func snapshot(b *Board) ([]TileSpec, Address) { return b.Specs(), b.Empty() }

func TestNewBoardRejectsBadLayouts(t *testing.T) {
	cases := []struct {
		name  string
		size  int
		empty Address
		tiles []TileSpec
	}{
		{"zero size", 0, Address{0, 0}, nil},
		{"empty off board", 2, Address{2, 2}, make([]TileSpec, 3)},
		{"too few tiles", 2, Address{1, 1}, []TileSpec{{Address: Address{0, 0}}}},
		{"tile on empty cell", 2, Address{1, 1}, []TileSpec{
			{Address: Address{0, 0}}, {Address: Address{1, 0}}, {Address: Address{1, 1}},
		}},
		{"duplicate tile", 2, Address{1, 1}, []TileSpec{
			{Address: Address{0, 0}}, {Address: Address{0, 0}}, {Address: Address{0, 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoard(tc.size, tc.empty, tc.tiles)
			assert.Error(t, err)
		})
	}
}

func TestIsAdjacentToEmptyMatchesManhattanDistance(t *testing.T) {
	for _, empty := range []Address{{0, 0}, {1, 1}, {2, 0}, {2, 2}} {
		b := newEmptyBoard(3)
		b.empty = empty
		for y := -1; y <= 3; y++ {
			for x := -1; x <= 3; x++ {
				a := Address{x, y}
				assert.Equal(t, Manhattan(a, empty) == 1, b.IsAdjacentToEmpty(a), "addr %v empty %v", a, empty)
			}
		}
		assert.False(t, b.IsAdjacentToEmpty(empty), "distance 0 must not be adjacent")
	}
}

func TestSwapWithEmptyMovesTile(t *testing.T) {
	b := smallBoard(t)
	moving := b.Tile(Address{1, 0})
	require.NotNil(t, moving)

	require.NoError(t, b.SwapWithEmpty(Address{1, 0}))

	assert.Equal(t, Address{1, 0}, b.Empty())
	assert.Nil(t, b.Tile(Address{1, 0}))
	assert.Same(t, moving, b.Tile(Address{1, 1}))
	assert.Equal(t, Address{1, 1}, moving.Address())
	assert.Equal(t, Fox, moving.Species())
	assert.Equal(t, UpIsFox, moving.Statement())
}

func TestSwapWithEmptyRejectsIllegalMoves(t *testing.T) {
	b, _, err := NewGenerator(&Options{Size: 4, FoxCount: 5, Seed: 7}).Generate()
	require.NoError(t, err)

	specs, empty := snapshot(b)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			a := Address{x, y}
			if b.IsAdjacentToEmpty(a) {
				continue
			}
			err := b.SwapWithEmpty(a)
			assert.ErrorIs(t, err, ErrIllegalMove, "addr %v", a)
		}
	}
	assert.ErrorIs(t, b.SwapWithEmpty(Address{-1, 0}), ErrIllegalMove)

	gotSpecs, gotEmpty := snapshot(b)
	assert.Equal(t, empty, gotEmpty)
	assert.Equal(t, specs, gotSpecs)
}

func TestSwapWithEmptyIsReversible(t *testing.T) {
	b, _, err := NewGenerator(&Options{Size: 3, FoxCount: 2, Seed: 99}).Generate()
	require.NoError(t, err)

	for _, a := range b.Movable() {
		specs, empty := snapshot(b)
		require.NoError(t, b.SwapWithEmpty(a))
		require.NoError(t, b.SwapWithEmpty(empty))
		gotSpecs, gotEmpty := snapshot(b)
		assert.Equal(t, empty, gotEmpty)
		assert.Equal(t, specs, gotSpecs)
	}
}

func TestSpeciesAndStatementsSurviveSwaps(t *testing.T) {
	b, _, err := NewGenerator(&Options{Size: 4, FoxCount: 6, Seed: 3}).Generate()
	require.NoError(t, err)

	type identity struct {
		species   Species
		statement Statement
	}
	before := map[*Tile]identity{}
	for tile := range b.Tiles() {
		before[tile] = identity{tile.Species(), tile.Statement()}
	}

	for i := 0; i < 200; i++ {
		movable := b.Movable()
		a := movable[i%len(movable)]
		empty := b.Empty()
		tile := b.Tile(a)
		require.NoError(t, b.SwapWithEmpty(a))
		assert.Equal(t, empty, tile.Address(), "tile must land on the previous empty cell")
	}

	count := 0
	for tile := range b.Tiles() {
		count++
		assert.Equal(t, before[tile], identity{tile.Species(), tile.Statement()})
	}
	assert.Equal(t, len(before), count)
}

func TestTilesIsRowMajorAndRestartable(t *testing.T) {
	b := smallBoard(t)

	var first []Address
	for tile := range b.Tiles() {
		first = append(first, tile.Address())
	}
	assert.Equal(t, []Address{{0, 0}, {1, 0}, {0, 1}}, first)

	var second []Address
	for tile := range b.Tiles() {
		second = append(second, tile.Address())
	}
	assert.Equal(t, first, second)

	seen := 0
	for range b.Tiles() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestMovableListsTilesAroundEmpty(t *testing.T) {
	b := smallBoard(t)
	assert.ElementsMatch(t, []Address{{1, 0}, {0, 1}}, b.Movable())
}

func TestTileOutsideBoardIsNil(t *testing.T) {
	b := smallBoard(t)
	assert.Nil(t, b.Tile(Address{-1, 0}))
	assert.Nil(t, b.Tile(Address{0, 2}))
	assert.Nil(t, b.Tile(b.Empty()))
}

func TestRender(t *testing.T) {
	b := smallBoard(t)
	assert.Contains(t, b.String(), "RightIsFox")
	assert.NotContains(t, b.String(), "O:")
	assert.Contains(t, b.Reveal(), "O:RightIsFox")
	assert.Contains(t, b.Reveal(), "F:UpIsFox")
}
