// internal/game/types.go
//
// Core type definitions for a Fox & Owl play session.
// Defines:
//   - Difficulty: the player-facing level, mapped to a fox count by a Policy.
//   - State:      coarse session state (playing/solved).
//   - MoveResult: what a single accepted slide did.
//   - Listener:   output port notified of moves and victory.

package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/foxowl/internal/puzzle"
)

// Difficulty is the level a player picks (0 easy, 1 normal, 2 hard).
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	}
	return strconv.Itoa(int(d))
}

// ParseDifficulty accepts a level name or its number.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "easy", "0":
		return Easy, nil
	case "normal", "medium", "1":
		return Normal, nil
	case "hard", "2":
		return Hard, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return Easy, fmt.Errorf("unknown difficulty %q", s)
	}
	return Difficulty(n), nil
}

// MarshalText encodes the level name.
func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalJSON accepts a level name or a number.
func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("difficulty %d is negative", n)
		}
		*d = Difficulty(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("difficulty must be a name or number: %w", err)
	}
	v, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// State is the coarse session state.
type State string

const (
	StatePlaying State = "playing"
	StateSolved  State = "solved"
)

// MoveResult reports an accepted slide and the board's progress after it.
type MoveResult struct {
	From  puzzle.Address `json:"from"`
	To    puzzle.Address `json:"to"`
	Valid int            `json:"valid"`
	Total int            `json:"total"`
	Moves int            `json:"moves"`
	State State          `json:"state"`
}

// Listener observes a session. Calls happen synchronously on the goroutine
// that applied the move, after the session lock is released.
type Listener interface {
	TileMoved(res MoveResult)
	Solved(g *Game)
}
