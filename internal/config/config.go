// internal/config/config.go
//
// Server configuration from the environment (and an optional .env file).
//
// Environment variables (defaults in parentheses):
//   PORT (5175)                     DB_PATH (./data/app.db)
//   NODE_ENV (development)          CLIENT_ORIGIN (http://localhost:5173)
//   JWT_SECRET (dev_secret_change_me)  JWT_EXPIRES_DAYS (14)
//   COOKIE_NAME (foxowl_token)      DAILY_SALT (local_dev_salt)
//   BOARD_SIZE (3)                  FOX_COUNTS (0,1,2)
//   SESSION_CAPACITY (4096)         SESSION_TTL (2h)
//   TESTIMONY_TEXT_FILE ()          DEFAULT_LOCALE (en)
//   LOG_LEVEL (info)  LOG_FORMAT (console)  LOG_FILE ()
//   LOG_FILE_MAX_MB (10)  LOG_FILE_MAX_BACKUPS (5)  LOG_FILE_MAX_AGE_DAYS (30)

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/robalobadob/foxowl/internal/game"
	"github.com/robalobadob/foxowl/internal/logging"
)

type Config struct {
	Port         string
	DBPath       string
	Env          string
	ClientOrigin string

	JWTSecret  string
	JWTExpiry  time.Duration
	CookieName string

	DailySalt string
	BoardSize int
	Policy    *game.Policy

	SessionCapacity int
	SessionTTL      time.Duration

	TestimonyFile string
	DefaultLocale string

	Log logging.Config
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c *Config) Production() bool { return c.Env == "production" }

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	p := parser{}
	c := &Config{
		Port:            getEnv("PORT", "5175"),
		DBPath:          getEnv("DB_PATH", "./data/app.db"),
		Env:             getEnv("NODE_ENV", "development"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:       getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiry:       time.Duration(p.int("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:      getEnv("COOKIE_NAME", "foxowl_token"),
		DailySalt:       getEnv("DAILY_SALT", "local_dev_salt"),
		BoardSize:       p.int("BOARD_SIZE", 3),
		SessionCapacity: p.int("SESSION_CAPACITY", 4096),
		SessionTTL:      p.duration("SESSION_TTL", 2*time.Hour),
		TestimonyFile:   os.Getenv("TESTIMONY_TEXT_FILE"),
		DefaultLocale:   getEnv("DEFAULT_LOCALE", "en"),
		Log: logging.Config{
			Level:          getEnv("LOG_LEVEL", "info"),
			Format:         getEnv("LOG_FORMAT", "console"),
			File:           os.Getenv("LOG_FILE"),
			FileMaxSizeMB:  p.int("LOG_FILE_MAX_MB", 10),
			FileMaxBackups: p.int("LOG_FILE_MAX_BACKUPS", 5),
			FileMaxAgeDays: p.int("LOG_FILE_MAX_AGE_DAYS", 30),
		},
	}
	if p.err != nil {
		return nil, p.err
	}

	policy, err := game.ParsePolicy(os.Getenv("FOX_COUNTS"))
	if err != nil {
		return nil, fmt.Errorf("FOX_COUNTS: %w", err)
	}
	c.Policy = policy

	if c.BoardSize < game.MinBoardSize || c.BoardSize > game.MaxBoardSize {
		return nil, fmt.Errorf("BOARD_SIZE must be between %d and %d, got %d", game.MinBoardSize, game.MaxBoardSize, c.BoardSize)
	}
	if c.JWTExpiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_DAYS must be positive")
	}
	return c, nil
}

// parser keeps the first conversion error.
type parser struct{ err error }

func (p *parser) int(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", k, err)
	}
	return n
}

func (p *parser) duration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", k, err)
	}
	return d
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
