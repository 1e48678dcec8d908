// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before anything else.
Values already present in the environment are never replaced by the file.

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseURL: SQLite path or PostgreSQL connection string (default: file:data/polls.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminUsername / AdminPassword: the single administrator (default: admin / admin123)
  - SessionSecret: HMAC key for admin session tokens (required)
  - SessionTTL: admin session lifetime (default: 12h)
  - CORSOrigins: browser origins allowed to call the API, "*" for any (default: http://localhost:5173)
  - Seed: load demonstration polls into an empty database
  - LogLevel / LogFormat: slog level and handler (default: info, text)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_USERNAME → -admin-user
	ADMIN_PASSWORD → -admin-password
	SESSION_SECRET → -session-secret
	SESSION_TTL    → -session-ttl
	CORS_ORIGINS   → -cors-origins
	SEED_DATA      → -seed
	LOG_LEVEL      → -log-level
	LOG_FORMAT     → -log-format

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when SESSION_SECRET is missing, the port is
outside 1-65535, the database type is unknown, or a duration or boolean
does not parse.
*/
package cliparse
