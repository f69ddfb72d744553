// internal/game/engine.go
//
// Core game engine for a single Fox & Owl session.
// Responsibilities:
//   - Create new games: map difficulty to a fox count and run the generator.
//   - Validate and apply slides (by address, or by swipe direction).
//   - Track progress (valid statements / total) and the playing → solved transition.
//   - Notify listeners (the live move stream) after every accepted slide.
//
// Notes:
//   - A Game owns its *puzzle.Board exclusively; the mutex serialises moves
//     arriving from concurrent requests. The board itself is lock-free.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/foxowl/internal/puzzle"
)

const defaultSize = 3

// Board sizes a server accepts, from config or from a client. The
// generator itself also takes 1 and anything larger.
const (
	MinBoardSize = 2
	MaxBoardSize = 8
)

var (
	ErrRejectedMove = errors.New("move rejected")
	ErrFinished     = errors.New("game finished")
)

// Options configures New.
type Options struct {
	Size       int        // Board edge length (default 3)
	Difficulty Difficulty // Player-facing level
	Seed       int64      // Generator seed (0 = random)
	Policy     *Policy    // Difficulty → fox count (nil = DefaultPolicy)
}

// Game holds the state of a single session.
type Game struct {
	ID         string
	Size       int
	Difficulty Difficulty
	FoxCount   int
	Seed       int64
	Stats      puzzle.Stats
	StartedAt  time.Time

	mu         sync.Mutex
	board      *puzzle.Board
	moves      int
	finished   bool
	finishedAt time.Time
	listeners  map[int]Listener
	nextSub    int
}

// New generates a board for the requested size and difficulty.
// Configuration errors (size, fox count) come back wrapped from package puzzle.
func New(opts Options) (*Game, error) {
	size := opts.Size
	if size == 0 {
		size = defaultSize
	}
	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	foxes, err := policy.FoxCount(opts.Difficulty)
	if err != nil {
		return nil, err
	}

	popts := puzzle.DefaultOptions(size, foxes)
	popts.Seed = opts.Seed
	board, stats, err := puzzle.NewGenerator(popts).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate %dx%d board: %w", size, size, err)
	}

	g := &Game{
		ID:         randomID(),
		Size:       size,
		Difficulty: opts.Difficulty,
		FoxCount:   foxes,
		Seed:       stats.Seed,
		Stats:      stats,
		StartedAt:  time.Now(),
		board:      board,
		listeners:  make(map[int]Listener),
	}
	if stats.FinalScore == board.TileCount() {
		g.finished = true
		g.finishedAt = g.StartedAt
	}

	log.Debug().
		Str("gameId", g.ID).
		Int("size", size).
		Int("foxes", foxes).
		Int("trials", stats.Trials).
		Int("bestScore", stats.BestScore).
		Int("shuffles", stats.Shuffles).
		Int("finalScore", stats.FinalScore).
		Dur("took", stats.Duration).
		Msg("board generated")
	return g, nil
}

// Restore wraps an existing board, such as a saved layout, in a new session.
// The game owns b from here on.
func Restore(b *puzzle.Board, difficulty Difficulty) *Game {
	foxes := 0
	for t := range b.Tiles() {
		if t.Species() == puzzle.Fox {
			foxes++
		}
	}
	g := &Game{
		ID:         randomID(),
		Size:       b.Size(),
		Difficulty: difficulty,
		FoxCount:   foxes,
		StartedAt:  time.Now(),
		board:      b,
		listeners:  make(map[int]Listener),
	}
	if puzzle.CountValidTestimonies(b) == b.TileCount() {
		g.finished = true
		g.finishedAt = g.StartedAt
	}
	return g
}

// Move slides the tile at addr into the empty cell.
// A slide that is not legal returns ErrRejectedMove and changes nothing.
func (g *Game) Move(addr puzzle.Address) (MoveResult, error) {
	return g.apply(addr, nil)
}

// Swipe moves the tile at addr in direction dir. The swipe only lands when
// the target cell is the empty one.
func (g *Game) Swipe(addr puzzle.Address, dir puzzle.Direction) (MoveResult, error) {
	return g.apply(addr, &dir)
}

func (g *Game) apply(addr puzzle.Address, dir *puzzle.Direction) (MoveResult, error) {
	g.mu.Lock()
	if g.finished {
		res := g.resultLocked(addr, addr)
		g.mu.Unlock()
		return res, ErrFinished
	}
	to := g.board.Empty()
	if dir != nil && addr.Step(*dir) != to {
		res := g.resultLocked(addr, addr)
		g.mu.Unlock()
		return res, fmt.Errorf("%w: %v cannot slide %v", ErrRejectedMove, addr, *dir)
	}
	if err := g.board.SwapWithEmpty(addr); err != nil {
		res := g.resultLocked(addr, addr)
		g.mu.Unlock()
		return res, fmt.Errorf("%w: %w", ErrRejectedMove, err)
	}
	g.moves++
	res := g.resultLocked(addr, to)
	solved := res.Valid == res.Total
	if solved {
		g.finished = true
		g.finishedAt = time.Now()
		res.State = StateSolved
	}
	listeners := g.listenersLocked()
	g.mu.Unlock()

	for _, l := range listeners {
		l.TileMoved(res)
		if solved {
			l.Solved(g)
		}
	}
	return res, nil
}

func (g *Game) resultLocked(from, to puzzle.Address) MoveResult {
	valid := puzzle.CountValidTestimonies(g.board)
	state := StatePlaying
	if g.finished {
		state = StateSolved
	}
	return MoveResult{
		From:  from,
		To:    to,
		Valid: valid,
		Total: g.board.TileCount(),
		Moves: g.moves,
		State: state,
	}
}

// Progress returns (valid statements, total tiles).
func (g *Game) Progress() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return puzzle.CountValidTestimonies(g.board), g.board.TileCount()
}

// State reports playing or solved.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		return StateSolved
	}
	return StatePlaying
}

// Moves returns the number of accepted slides.
func (g *Game) Moves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moves
}

// Elapsed is the time from start to solve (or to now while playing).
func (g *Game) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		return g.finishedAt.Sub(g.StartedAt)
	}
	return time.Since(g.StartedAt)
}

// Inspect runs fn with read access to the board under the session lock.
// fn must not keep the board or call SwapWithEmpty.
func (g *Game) Inspect(fn func(b *puzzle.Board)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.board)
}

// Subscribe registers l and returns a func that removes it.
func (g *Game) Subscribe(l Listener) (cancel func()) {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.listeners[id] = l
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

func (g *Game) listenersLocked() []Listener {
	if len(g.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(g.listeners))
	for _, l := range g.listeners {
		out = append(out, l)
	}
	return out
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
