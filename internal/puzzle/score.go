package puzzle

// IsTestimonyValid evaluates one tile against the board as it stands.
//
// The statement names one neighbour. If that cell is off-board or empty the
// statement is invalid. Otherwise it is valid when its literal truth matches
// the tile's reliability: an owl's statement must be true, a fox's false.
func IsTestimonyValid(b *Board, t *Tile) bool {
	n := b.Tile(t.addr.Step(t.statement.Direction()))
	if n == nil {
		return false
	}
	return (n.species == t.statement.Claims()) == t.IsReliable()
}

// CountValidTestimonies returns how many tiles currently have a valid
// statement. The board is solved when this equals TileCount.
func CountValidTestimonies(b *Board) int {
	valid := 0
	for t := range b.Tiles() {
		if IsTestimonyValid(b, t) {
			valid++
		}
	}
	return valid
}
