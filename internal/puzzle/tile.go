package puzzle

// Tile is one piece of the board. Species and statement are fixed once the
// board is generated; only the address changes, and only through
// Board.SwapWithEmpty.
type Tile struct {
	addr      Address
	species   Species
	statement Statement
}

func (t *Tile) Address() Address     { return t.addr }
func (t *Tile) Species() Species     { return t.species }
func (t *Tile) Statement() Statement { return t.statement }

// IsReliable reports whether the tile's statement is meant to be true.
// Owls tell the truth, foxes lie.
func (t *Tile) IsReliable() bool { return t.species == Owl }

// TileSpec describes a tile for NewBoard.
type TileSpec struct {
	Address   Address   `json:"address"`
	Species   Species   `json:"species"`
	Statement Statement `json:"statement"`
}
