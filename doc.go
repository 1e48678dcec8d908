// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollster API server.

Pollster is a small single-choice polling service. An administrator creates
polls; anyone can vote once per poll (tracked by a cookie in their browser)
and see live results.

# Starting the Server

Only the session secret is required:

	SESSION_SECRET=change-me go run .

Or with flags:

	go run . -p 8000 -d file:data/polls.db -session-secret change-me -seed

A .env file in the working directory is read as well.

# Configuration

Required settings:

  - SESSION_SECRET (-session-secret): HMAC key for admin sessions

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): database location (default: file:data/polls.db)
  - ADMIN_USERNAME / ADMIN_PASSWORD: admin credentials (default: admin / admin123)
  - SESSION_TTL: admin session lifetime (default: 12h)
  - CORS_ORIGINS: allowed browser origins
  - SEED_DATA (-seed): load demonstration polls into an empty database
  - LOG_LEVEL / LOG_FORMAT: debug|info|warn|error and text|json

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, results, login)
  - router: Route definitions using Go 1.22+ routing, CORS
  - middleware: logging, admin sessions, JSON helpers
  - polls: poll lifecycle (create, vote, tally, seed)
  - store: SQL persistence for polls and options
  - ledger: per-poll voted cookie
  - auth: admin password verification and session tokens
  - models: Request/response and domain types
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
