// Command foxowl generates and plays Fox & Owl boards in the terminal.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/foxowl/internal/logging"
	"github.com/robalobadob/foxowl/internal/testimony"
)

func newRootCmd() *cobra.Command {
	var (
		verbose   bool
		textsFile string
	)
	root := &cobra.Command{
		Use:   "foxowl",
		Short: "Fox & Owl sliding testimony puzzle",
		Long: `Generate and play Fox & Owl boards.

Every tile is a fox or an owl and states what its neighbour in one
direction is. Owls tell the truth, foxes lie. Slide tiles into the
empty cell until every statement holds.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := logging.DefaultConfig()
			cfg.Level = zerolog.WarnLevel.String()
			if verbose {
				cfg.Level = zerolog.DebugLevel.String()
			}
			if _, err := logging.Setup(cfg); err != nil {
				return err
			}
			return testimony.Init(textsFile)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log generation details")
	root.PersistentFlags().StringVar(&textsFile, "texts", "", "YAML file with statement texts (defaults to the built-in table)")

	root.AddCommand(newGenCmd(), newPlayCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
