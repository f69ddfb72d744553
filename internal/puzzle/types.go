// internal/puzzle/types.go
//
// Value types for the Fox & Owl board.
// Defines:
//   - Address:   a cell coordinate on a size×size grid.
//   - Species:   the hidden kind of a tile (Fox lies, Owl tells the truth).
//   - Direction: one of the four grid neighbours.
//   - Statement: "the tile in direction D is species S" (8 values).

package puzzle

import (
	"fmt"
	"strings"
)

// Address is a cell coordinate. X grows to the right, Y grows downward.
type Address struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring address in direction d (may be off-board).
func (a Address) Step(d Direction) Address {
	switch d {
	case Up:
		return Address{a.X, a.Y - 1}
	case Down:
		return Address{a.X, a.Y + 1}
	case Left:
		return Address{a.X - 1, a.Y}
	case Right:
		return Address{a.X + 1, a.Y}
	}
	return a
}

// In reports whether a lies on a size×size board.
func (a Address) In(size int) bool {
	return a.X >= 0 && a.Y >= 0 && a.X < size && a.Y < size
}

func (a Address) String() string { return fmt.Sprintf("(%d,%d)", a.X, a.Y) }

// Manhattan returns |ax-bx| + |ay-by|.
func Manhattan(a, b Address) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Species is the hidden kind of a tile.
type Species int

const (
	Fox Species = iota
	Owl
)

func (s Species) String() string {
	if s == Owl {
		return "owl"
	}
	return "fox"
}

// MarshalText encodes species as "fox" / "owl".
func (s Species) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Species) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "fox":
		*s = Fox
	case "owl":
		*s = Owl
	default:
		return fmt.Errorf("unknown species %q", b)
	}
	return nil
}

// Direction names one of the four grid neighbours.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in canonical order.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionNames = [4]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection converts "up" / "down" / "left" / "right" (any case).
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == key {
			return Direction(i), nil
		}
	}
	return Up, fmt.Errorf("unknown direction %q", s)
}

// Statement is a tile's claim about the species of one neighbour.
// Values are laid out as direction*2 + species so the pair can be recovered.
type Statement int

const (
	UpIsFox Statement = iota
	UpIsOwl
	DownIsFox
	DownIsOwl
	LeftIsFox
	LeftIsOwl
	RightIsFox
	RightIsOwl
)

var statementNames = [8]string{
	"UpIsFox", "UpIsOwl",
	"DownIsFox", "DownIsOwl",
	"LeftIsFox", "LeftIsOwl",
	"RightIsFox", "RightIsOwl",
}

// StatementFor builds the statement "the tile in direction d is species s".
func StatementFor(d Direction, s Species) Statement {
	return Statement(int(d)*2 + int(s))
}

// Direction returns the neighbour the statement talks about.
func (s Statement) Direction() Direction { return Direction(int(s) / 2) }

// Claims returns the species the statement asserts for that neighbour.
func (s Statement) Claims() Species { return Species(int(s) % 2) }

func (s Statement) String() string {
	if s < UpIsFox || s > RightIsOwl {
		return "Unknown"
	}
	return statementNames[s]
}

// MarshalText encodes a statement by name ("LeftIsOwl").
func (s Statement) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Statement) UnmarshalText(b []byte) error {
	v, err := ParseStatement(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatement accepts the names produced by String, case-insensitively.
func ParseStatement(name string) (Statement, error) {
	for i, n := range statementNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Statement(i), nil
		}
	}
	return UpIsFox, fmt.Errorf("unknown statement %q", name)
}
