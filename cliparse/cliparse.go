// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/pollster/db"
)

const (
	DefaultPort          = 8000
	DefaultDatabaseURL   = "file:data/polls.db"
	DefaultDatabaseType  = "sqlite"
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultSessionTTL    = 12 * time.Hour
	DefaultCORSOrigins   = "http://localhost:5173"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	AdminUsername string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration

	// CORSOrigins may contain "*" to reflect any origin
	CORSOrigins []string

	Seed      bool
	LogLevel  string
	LogFormat string
}

// ParseFlags parses CLI flags, falling back to environment variables and
// then to defaults. A .env file in the working directory is loaded first;
// variables already set in the environment win over the file.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	fs := flag.NewFlagSet("pollster", flag.ContinueOnError)

	var sessionTTL string
	var corsOrigins string
	var seed bool

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Admin identity and session (prefer env, but allow CLI for dev)
	fs.StringVar(&cfg.AdminUsername, "admin-user", "", "Admin username")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin password (prefer env)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.StringVar(&sessionTTL, "session-ttl", "", "Admin session lifetime, e.g. 12h")

	fs.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated browser origins allowed to call the API")
	fs.BoolVar(&seed, "seed", false, "Seed demonstration polls into an empty database")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), DefaultDatabaseURL)
	dialect, err := db.ParseDialect(firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), DefaultDatabaseType))
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseType = string(dialect)

	cfg.AdminUsername = firstNonEmpty(cfg.AdminUsername, os.Getenv("ADMIN_USERNAME"), DefaultAdminUsername)
	cfg.AdminPassword = firstNonEmpty(cfg.AdminPassword, os.Getenv("ADMIN_PASSWORD"), DefaultAdminPassword)

	// Secrets - MUST be provided
	cfg.SessionSecret = firstNonEmpty(cfg.SessionSecret, os.Getenv("SESSION_SECRET"))
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	sessionTTL = firstNonEmpty(sessionTTL, os.Getenv("SESSION_TTL"))
	if sessionTTL == "" {
		cfg.SessionTTL = DefaultSessionTTL
	} else {
		ttl, err := time.ParseDuration(sessionTTL)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid session ttl %q", sessionTTL)
		}
		cfg.SessionTTL = ttl
	}

	corsOrigins = firstNonEmpty(corsOrigins, os.Getenv("CORS_ORIGINS"), DefaultCORSOrigins)
	for _, origin := range strings.Split(corsOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	cfg.Seed = seed
	if !seed {
		if v := os.Getenv("SEED_DATA"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid SEED_DATA env variable")
			}
			cfg.Seed = b
		}
	}

	cfg.LogLevel = strings.ToLower(firstNonEmpty(cfg.LogLevel, os.Getenv("LOG_LEVEL"), "info"))
	cfg.LogFormat = strings.ToLower(firstNonEmpty(cfg.LogFormat, os.Getenv("LOG_FORMAT"), "text"))

	return cfg, nil
}

// SlogLevel maps LogLevel onto slog; unknown names mean info
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
