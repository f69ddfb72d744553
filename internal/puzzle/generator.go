// internal/puzzle/generator.go
//
// Board generation in three stages:
//   1. Species search: random permutations of the fox/owl multiset, scored with
//      a placeholder statement on every tile; the best layout wins.
//   2. Statement assignment: each tile names its first present neighbour (in a
//      shuffled direction order) with the claim that makes it valid.
//   3. Scramble: a random walk of legal slides until no statement holds or the
//      shuffle cap is reached.
//
// A generator owns one *rand.Rand, so a fixed Seed reproduces the same board.

package puzzle

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	DefaultMaxTrials   = 100000
	DefaultMaxShuffles = 100000
)

// Options configures a Generator.
type Options struct {
	Size        int   // Edge length of the board
	FoxCount    int   // Number of fox tiles; the rest are owls
	Seed        int64 // Seed for reproducible boards (0 = random)
	MaxTrials   int   // Cap on species-search permutations
	MaxShuffles int   // Cap on scramble slides

	// OnShuffle, if set, is called after every scramble slide with the
	// tile's previous and new address.
	OnShuffle func(from, to Address)
}

// DefaultOptions returns options with the standard search and shuffle caps.
func DefaultOptions(size, foxCount int) *Options {
	return &Options{
		Size:        size,
		FoxCount:    foxCount,
		MaxTrials:   DefaultMaxTrials,
		MaxShuffles: DefaultMaxShuffles,
	}
}

// Stats describes one Generate run.
type Stats struct {
	Trials     int           `json:"trials"`     // species permutations scored
	BestScore  int           `json:"bestScore"`  // best placeholder score found
	Shuffles   int           `json:"shuffles"`   // scramble slides applied
	FinalScore int           `json:"finalScore"` // validity of the delivered board
	Seed       int64         `json:"seed"`
	Duration   time.Duration `json:"duration"`
}

// Generator builds boards.
type Generator struct {
	options *Options
	seed    int64
	rng     *rand.Rand
}

// NewGenerator creates a generator. nil options means a 3×3 all-owl board.
func NewGenerator(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions(3, 0)
	}
	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		options: options,
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate is a convenience wrapper using DefaultOptions and a random seed.
func Generate(size, foxCount int) (*Board, Stats, error) {
	return NewGenerator(DefaultOptions(size, foxCount)).Generate()
}

// Generate produces a scrambled board whose unscrambled form had every
// statement valid. Configuration errors and ErrInconsistentTestimony are
// returned without a board.
func (g *Generator) Generate() (*Board, Stats, error) {
	start := time.Now()
	stats := Stats{Seed: g.seed}

	size, foxes := g.options.Size, g.options.FoxCount
	if size < 1 {
		return nil, stats, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	total := size*size - 1
	if foxes < 0 || foxes > total {
		return nil, stats, fmt.Errorf("%w: got %d for a %dx%d board", ErrInvalidFoxCount, foxes, size, size)
	}

	b := newEmptyBoard(size)
	stats.Trials, stats.BestScore = g.searchSpecies(b, foxes)

	if err := g.assignStatements(b); err != nil {
		return nil, stats, err
	}

	stats.Shuffles, stats.FinalScore = g.scramble(b)
	stats.Duration = time.Since(start)
	return b, stats, nil
}

// searchSpecies places the best species layout it can find on b, row-major
// over every cell except the bottom-right one. Every tile carries the
// placeholder statement UpIsFox while scoring.
func (g *Generator) searchSpecies(b *Board, foxes int) (trials, best int) {
	total := b.TileCount()
	pool := make([]Species, total)
	for i := range pool {
		if i < foxes {
			pool[i] = Fox
		} else {
			pool[i] = Owl
		}
	}

	tiles := make([]*Tile, total)
	for i := range tiles {
		a := Address{i % b.size, i / b.size}
		tiles[i] = &Tile{addr: a, statement: UpIsFox}
		b.cells[b.index(a)] = tiles[i]
	}

	limit := factorialCapped(total, g.maxTrials())
	arr := make([]Species, total)
	bestLayout := make([]Species, total)
	best = -1
	for trials < limit {
		copy(arr, pool)
		g.rng.Shuffle(len(arr), func(i, j int) { arr[i], arr[j] = arr[j], arr[i] })
		for i, t := range tiles {
			t.species = arr[i]
		}
		trials++

		score := CountValidTestimonies(b)
		if score > best {
			best = score
			copy(bestLayout, arr)
			if score == total {
				break
			}
		}
	}

	for i, t := range tiles {
		t.species = bestLayout[i]
	}
	return trials, best
}

// assignStatements gives every tile a statement that is valid right now:
// it scans the four directions in a per-tile shuffled order and describes the
// first present neighbour, truthfully for owls and falsely for foxes.
func (g *Generator) assignStatements(b *Board) error {
	dirs := Directions
	for t := range b.Tiles() {
		g.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
		for _, d := range dirs {
			n := b.Tile(t.addr.Step(d))
			if n == nil {
				continue
			}
			claim := n.species
			if !t.IsReliable() {
				claim = other(claim)
			}
			t.statement = StatementFor(d, claim)
			break
		}
	}

	total := b.TileCount()
	if valid := CountValidTestimonies(b); valid != total {
		return fmt.Errorf("%w: expected %d, got %d", ErrInconsistentTestimony, total, valid)
	}
	return nil
}

// scramble slides random movable tiles until no statement is valid or the
// shuffle cap is hit. Falling short of zero is not an error.
func (g *Generator) scramble(b *Board) (shuffles, score int) {
	limit := g.options.MaxShuffles
	if limit <= 0 {
		limit = DefaultMaxShuffles
	}
	score = CountValidTestimonies(b)
	for score > 0 && shuffles < limit {
		movable := b.Movable()
		if len(movable) == 0 {
			break
		}
		from := movable[g.rng.Intn(len(movable))]
		to := b.empty
		if err := b.SwapWithEmpty(from); err != nil {
			break
		}
		if g.options.OnShuffle != nil {
			g.options.OnShuffle(from, to)
		}
		shuffles++
		score = CountValidTestimonies(b)
	}
	return shuffles, score
}

func (g *Generator) maxTrials() int {
	if g.options.MaxTrials <= 0 {
		return DefaultMaxTrials
	}
	return g.options.MaxTrials
}

// factorialCapped returns min(n!, limit) without overflowing.
func factorialCapped(n, limit int) int {
	res := 1
	for i := 2; i <= n; i++ {
		if res > limit/i {
			return limit
		}
		res *= i
	}
	return min(res, limit)
}

func other(s Species) Species {
	if s == Fox {
		return Owl
	}
	return Fox
}
