// internal/puzzle/board.go
//
// The sliding board: a size×size grid with exactly one empty cell.
// Cells are stored in a flat slice indexed y*size+x; nil marks the empty cell.
//
// The only mutation after generation is SwapWithEmpty, which keeps the board
// inside the sliding-puzzle permutation group.

package puzzle

import (
	"fmt"
	"iter"
	"strings"
)

// Board owns its tiles exclusively. It is not safe for concurrent mutation;
// callers serialise moves (see package game).
type Board struct {
	size  int
	cells []*Tile
	empty Address
}

// newEmptyBoard allocates a board with no tiles and the empty cell in the
// bottom-right corner.
func newEmptyBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]*Tile, size*size),
		empty: Address{size - 1, size - 1},
	}
}

// NewBoard builds a board from an explicit layout.
// Exactly size²-1 tiles are required, at distinct on-board addresses, none of
// them on the empty cell.
func NewBoard(size int, empty Address, tiles []TileSpec) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if !empty.In(size) {
		return nil, fmt.Errorf("%w: empty cell %v outside %dx%d board", ErrInvalidLayout, empty, size, size)
	}
	if len(tiles) != size*size-1 {
		return nil, fmt.Errorf("%w: need %d tiles, got %d", ErrInvalidLayout, size*size-1, len(tiles))
	}
	b := &Board{size: size, cells: make([]*Tile, size*size), empty: empty}
	for _, spec := range tiles {
		a := spec.Address
		if !a.In(size) || a == empty {
			return nil, fmt.Errorf("%w: tile at %v", ErrInvalidLayout, a)
		}
		if b.cells[b.index(a)] != nil {
			return nil, fmt.Errorf("%w: two tiles at %v", ErrInvalidLayout, a)
		}
		b.cells[b.index(a)] = &Tile{addr: a, species: spec.Species, statement: spec.Statement}
	}
	return b, nil
}

func (b *Board) index(a Address) int { return a.Y*b.size + a.X }

// Size returns the board's edge length.
func (b *Board) Size() int { return b.size }

// Empty returns the address of the empty cell.
func (b *Board) Empty() Address { return b.empty }

// TileCount is size²-1, the number of tiles on a generated board.
func (b *Board) TileCount() int { return b.size*b.size - 1 }

// Tile returns the tile at a, or nil for the empty cell and off-board addresses.
func (b *Board) Tile(a Address) *Tile {
	if !a.In(b.size) {
		return nil
	}
	return b.cells[b.index(a)]
}

// Tiles yields every present tile in row-major order.
func (b *Board) Tiles() iter.Seq[*Tile] {
	return func(yield func(*Tile) bool) {
		for _, t := range b.cells {
			if t == nil {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// IsAdjacentToEmpty reports whether a is exactly one step from the empty cell.
func (b *Board) IsAdjacentToEmpty(a Address) bool {
	return Manhattan(a, b.empty) == 1
}

// SwapWithEmpty slides the tile at a into the empty cell.
// Returns ErrIllegalMove, leaving the board untouched, when a is not adjacent
// to the empty cell or holds no tile.
func (b *Board) SwapWithEmpty(a Address) error {
	if !b.IsAdjacentToEmpty(a) {
		return fmt.Errorf("%w: %v is not next to the empty cell %v", ErrIllegalMove, a, b.empty)
	}
	t := b.Tile(a)
	if t == nil {
		return fmt.Errorf("%w: no tile at %v", ErrIllegalMove, a)
	}
	b.cells[b.index(b.empty)] = t
	b.cells[b.index(a)] = nil
	t.addr = b.empty
	b.empty = a
	return nil
}

// Movable lists the tiles that can slide right now, probing up, down, left
// and right of the empty cell.
func (b *Board) Movable() []Address {
	out := make([]Address, 0, 4)
	for _, d := range Directions {
		n := b.empty.Step(d)
		if b.Tile(n) != nil {
			out = append(out, n)
		}
	}
	return out
}

// Specs returns the current layout in row-major order, suitable for NewBoard.
func (b *Board) Specs() []TileSpec {
	out := make([]TileSpec, 0, b.TileCount())
	for t := range b.Tiles() {
		out = append(out, TileSpec{Address: t.addr, Species: t.species, Statement: t.statement})
	}
	return out
}

// String renders the grid with statement names; "." marks the empty cell.
func (b *Board) String() string { return b.render(false) }

// Reveal renders the grid with each tile's species prefixed (F/O).
func (b *Board) Reveal() string { return b.render(true) }

func (b *Board) render(reveal bool) string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			t := b.Tile(Address{x, y})
			if t == nil {
				fmt.Fprintf(&sb, "%-12s", ".")
				continue
			}
			cell := t.statement.String()
			if reveal {
				cell = strings.ToUpper(t.species.String()[:1]) + ":" + cell
			}
			fmt.Fprintf(&sb, "%-12s", cell)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
