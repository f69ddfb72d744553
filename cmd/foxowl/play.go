package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/foxowl/internal/game"
	"github.com/robalobadob/foxowl/internal/puzzle"
	"github.com/robalobadob/foxowl/internal/testimony"
)

func newPlayCmd() *cobra.Command {
	var (
		size       int
		difficulty string
		seed       int64
		foxCounts  string
		locale     string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a board in the terminal",
		Long: `Play a board interactively.

Each line is a move:
  x y          slide the tile at column x, row y into the empty cell
  x y up       swipe the tile at (x, y) up (also down, left, right)
  q            give up

Coordinates start at 0 in the top-left corner.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGame(size, difficulty, seed, foxCounts)
			if err != nil {
				return err
			}
			return play(cmd.InOrStdin(), cmd.OutOrStdout(), g, locale)
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", 3, "Board edge length (2 or more)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "normal", "easy, normal, hard or a level number")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed; 0 picks one from the clock")
	cmd.Flags().StringVar(&foxCounts, "fox-counts", "", "Foxes per level, comma separated (e.g. 0,1,2)")
	cmd.Flags().StringVarP(&locale, "locale", "l", testimony.DefaultLocale, "Language for statement texts")
	return cmd
}

// parseMove reads "x y" or "x y direction".
func parseMove(line string) (puzzle.Address, *puzzle.Direction, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 && len(fields) != 3 {
		return puzzle.Address{}, nil, fmt.Errorf("expected \"x y\" or \"x y direction\", got %q", line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return puzzle.Address{}, nil, fmt.Errorf("bad column %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return puzzle.Address{}, nil, fmt.Errorf("bad row %q", fields[1])
	}
	addr := puzzle.Address{X: x, Y: y}
	if len(fields) == 2 {
		return addr, nil, nil
	}
	dir, err := puzzle.ParseDirection(fields[2])
	if err != nil {
		return puzzle.Address{}, nil, err
	}
	return addr, &dir, nil
}

// play runs the move loop until the board is solved, the player quits or
// in runs dry.
func play(in io.Reader, out io.Writer, g *game.Game, locale string) error {
	printBoard(out, g, false, locale)
	if g.State() == game.StateSolved {
		fmt.Fprintln(out, "Already solved.")
		return nil
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "q", "quit":
			fmt.Fprintln(out, "Gave up. Species were:")
			g.Inspect(func(b *puzzle.Board) { fmt.Fprint(out, b.Reveal()) })
			return nil
		}

		addr, dir, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if dir != nil {
			_, err = g.Swipe(addr, *dir)
		} else {
			_, err = g.Move(addr)
		}
		if errors.Is(err, game.ErrRejectedMove) {
			fmt.Fprintf(out, "Cannot move %v.\n", addr)
			continue
		}
		if err != nil {
			return err
		}

		printBoard(out, g, false, locale)
		if g.State() == game.StateSolved {
			fmt.Fprintf(out, "Solved in %d moves (%s).\n", g.Moves(), g.Elapsed().Round(time.Millisecond))
			g.Inspect(func(b *puzzle.Board) { fmt.Fprint(out, b.Reveal()) })
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
