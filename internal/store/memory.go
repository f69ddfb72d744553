// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Live sessions hold their board and listeners in process, so this is the
// only implementation; finished games are recorded in SQLite by the server.
//
// Characteristics:
//   - Bounded: the least recently used session is evicted past capacity.
//   - Sessions idle longer than the TTL expire. Solved games are kept until
//     then so their revealed board can still be fetched.
//   - Concurrency-safe (the LRU carries its own lock).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/foxowl/internal/game"
)

var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or refreshes a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Len reports the number of live sessions.
	Len() int
}

const (
	DefaultCapacity = 4096
	DefaultTTL      = 2 * time.Hour
)

type memory struct {
	games *expirable.LRU[string, *game.Game]
}

// NewMemoryStore constructs an in-memory Store. Non-positive arguments fall
// back to DefaultCapacity and DefaultTTL.
func NewMemoryStore(capacity int, ttl time.Duration) Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	onEvict := func(id string, g *game.Game) {
		log.Debug().Str("gameId", id).Str("state", string(g.State())).Msg("session evicted")
	}
	return &memory{games: expirable.NewLRU[string, *game.Game](capacity, onEvict, ttl)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.games.Add(g.ID, g)
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g, ok := m.games.Get(id); ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Len() int { return m.games.Len() }
