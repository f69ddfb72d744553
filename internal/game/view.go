package game

import "github.com/robalobadob/foxowl/internal/puzzle"

// TileView is one tile as shown to a client.
type TileView struct {
	X         int             `json:"x"`
	Y         int             `json:"y"`
	Statement string          `json:"statement"`
	Text      string          `json:"text,omitempty"`
	Species   *puzzle.Species `json:"species,omitempty"`
}

// View is a JSON snapshot of a session.
type View struct {
	GameID     string           `json:"gameId"`
	Size       int              `json:"size"`
	Difficulty Difficulty       `json:"difficulty"`
	Empty      puzzle.Address   `json:"empty"`
	Tiles      []TileView       `json:"tiles"`
	Movable    []puzzle.Address `json:"movable"`
	Valid      int              `json:"valid"`
	Total      int              `json:"total"`
	Moves      int              `json:"moves"`
	State      State            `json:"state"`
}

// View snapshots the board. Species are only included when reveal is set,
// which callers use once the game is solved. label may be nil.
func (g *Game) View(reveal bool, label func(puzzle.Statement) string) View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := View{
		GameID:     g.ID,
		Size:       g.Size,
		Difficulty: g.Difficulty,
		Empty:      g.board.Empty(),
		Tiles:      make([]TileView, 0, g.board.TileCount()),
		Movable:    g.board.Movable(),
		Total:      g.board.TileCount(),
		Moves:      g.moves,
		State:      StatePlaying,
	}
	if g.finished {
		v.State = StateSolved
	}
	for t := range g.board.Tiles() {
		tv := TileView{
			X:         t.Address().X,
			Y:         t.Address().Y,
			Statement: t.Statement().String(),
		}
		if label != nil {
			tv.Text = label(t.Statement())
		}
		if reveal {
			s := t.Species()
			tv.Species = &s
		}
		if puzzle.IsTestimonyValid(g.board, t) {
			v.Valid++
		}
		v.Tiles = append(v.Tiles, tv)
	}
	return v
}
