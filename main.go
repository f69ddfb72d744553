package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/foxowl/assets"
	"github.com/robalobadob/foxowl/internal/auth"
	"github.com/robalobadob/foxowl/internal/config"
	"github.com/robalobadob/foxowl/internal/database"
	"github.com/robalobadob/foxowl/internal/httpserver"
	"github.com/robalobadob/foxowl/internal/logging"
	"github.com/robalobadob/foxowl/internal/store"
	"github.com/robalobadob/foxowl/internal/testimony"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("foxowl server failed")
	}
	log.Info().Msg("server stopped")
}

// run serves until ctx is cancelled. Everything it opens is closed before it
// returns.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logs, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logs.Close()

	if err := testimony.Init(cfg.TestimonyFile); err != nil {
		return fmt.Errorf("load statement texts %q: %w", cfg.TestimonyFile, err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	mem := store.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL)
	srv := httpserver.New(mem, db, httpserver.Options{
		ClientOrigin:  cfg.ClientOrigin,
		BoardSize:     cfg.BoardSize,
		Policy:        cfg.Policy,
		DailySalt:     cfg.DailySalt,
		DefaultLocale: cfg.DefaultLocale,
		Text:          testimony.Get(),
		Auth: auth.Config{
			Secret:     cfg.JWTSecret,
			Expiry:     cfg.JWTExpiry,
			CookieName: cfg.CookieName,
			Secure:     cfg.Production(),
		},
	})

	log.Info().
		Str("port", cfg.Port).
		Int("boardSize", cfg.BoardSize).
		Str("policy", cfg.Policy.String()).
		Msg("starting foxowl server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
