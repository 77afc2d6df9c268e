package config

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultMaxInvitesSent caps event-invite re-sends per identity, even
// under administrative force.
const DefaultMaxInvitesSent = 3

type Config struct {
	Port           int
	DatabaseURL    string
	BaseURL        string
	SupportEmail   string
	SessionSecret  string
	MaxInvitesSent int
	// TestMode disables the localhost URL guard on outbound invites and
	// suppresses real notification sends.
	TestMode bool
}

// Parse validates flags and environment into a Config. A .env file in the
// working directory is loaded first if present.
func Parse(args []string) (Config, error) {
	// Ignore a missing .env; explicit env vars still apply.
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("contest-server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Absolute base URL for invite links")
	fs.StringVar(&cfg.SupportEmail, "support-email", "", "From address for invite mail")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Cookie signing key (prefer env)")
	fs.IntVar(&cfg.MaxInvitesSent, "max-invites", 0, "Hard cap on invite sends per identity")
	fs.BoolVar(&cfg.TestMode, "test-mode", false, "Allow localhost invite URLs and suppress sends")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3640 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		return Config{}, errors.New("BASE_URL required for invite links")
	}

	if cfg.SupportEmail == "" {
		cfg.SupportEmail = os.Getenv("SUPPORT_EMAIL")
	}
	if cfg.SupportEmail == "" {
		cfg.SupportEmail = "support@pitchcontest.local"
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.MaxInvitesSent == 0 {
		if v := os.Getenv("MAX_INVITES_SENT"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid MAX_INVITES_SENT env variable")
			}
			cfg.MaxInvitesSent = n
		} else {
			cfg.MaxInvitesSent = DefaultMaxInvitesSent
		}
	}

	if !cfg.TestMode && os.Getenv("TEST_MODE") == "1" {
		cfg.TestMode = true
	}

	return cfg, nil
}
