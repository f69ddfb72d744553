package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/robalobadob/foxowl/internal/game"
	"github.com/robalobadob/foxowl/internal/puzzle"
	"github.com/robalobadob/foxowl/internal/testimony"
)

type genFlags struct {
	size       int
	difficulty string
	seed       int64
	foxCounts  string
	reveal     bool
	locale     string
	asJSON     bool
}

func newGenCmd() *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a Fox & Owl board",
		Long: `Generate a board and print it with its statements.

Examples:
  foxowl gen
  foxowl gen --size 4 --difficulty hard
  foxowl gen --seed 42 --reveal
  foxowl gen --json --locale ja`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().IntVarP(&f.size, "size", "s", 3, "Board edge length (2 or more)")
	cmd.Flags().StringVarP(&f.difficulty, "difficulty", "d", "normal", "easy, normal, hard or a level number")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Generator seed; 0 picks one from the clock")
	cmd.Flags().StringVar(&f.foxCounts, "fox-counts", "", "Foxes per level, comma separated (e.g. 0,1,2)")
	cmd.Flags().BoolVar(&f.reveal, "reveal", false, "Show which tiles are foxes")
	cmd.Flags().StringVarP(&f.locale, "locale", "l", testimony.DefaultLocale, "Language for statement texts")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the board as JSON")
	return cmd
}

func newGame(size int, difficulty string, seed int64, foxCounts string) (*game.Game, error) {
	d, err := game.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	policy, err := game.ParsePolicy(foxCounts)
	if err != nil {
		return nil, err
	}
	return game.New(game.Options{Size: size, Difficulty: d, Seed: seed, Policy: policy})
}

func runGen(out io.Writer, f *genFlags) error {
	g, err := newGame(f.size, f.difficulty, f.seed, f.foxCounts)
	if err != nil {
		return err
	}
	text := testimony.Get()

	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			game.View
			Seed  int64        `json:"seed"`
			Stats puzzle.Stats `json:"stats"`
		}{g.View(f.reveal, text.Labeler(f.locale)), g.Seed, g.Stats})
	}

	fmt.Fprintf(out, "Board %dx%d, %s, %d fox(es), seed %d\n\n", g.Size, g.Size, g.Difficulty, g.FoxCount, g.Seed)
	printBoard(out, g, f.reveal, f.locale)
	fmt.Fprintf(out, "\ntrials %d, best placement %d, shuffles %d, took %s\n",
		g.Stats.Trials, g.Stats.BestScore, g.Stats.Shuffles, g.Stats.Duration)
	return nil
}

// printBoard writes the grid, the progress line and a legend of the
// statements on the board.
func printBoard(out io.Writer, g *game.Game, reveal bool, locale string) {
	text := testimony.Get()
	seen := map[puzzle.Statement]bool{}
	g.Inspect(func(b *puzzle.Board) {
		if reveal {
			fmt.Fprint(out, b.Reveal())
		} else {
			fmt.Fprint(out, b.String())
		}
		for t := range b.Tiles() {
			seen[t.Statement()] = true
		}
	})

	valid, total := g.Progress()
	fmt.Fprintln(out, text.Progress(valid, total, locale))

	legend := make([]puzzle.Statement, 0, len(seen))
	for s := range seen {
		legend = append(legend, s)
	}
	sort.Slice(legend, func(i, j int) bool { return legend[i] < legend[j] })
	for _, s := range legend {
		fmt.Fprintf(out, "  %-12s %s\n", s, text.Text(s, locale))
	}
}
