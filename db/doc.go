// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Dialects

Two backends are supported:

  - sqlite (default): pure-Go modernc.org/sqlite, file or in-memory
  - postgres: github.com/lib/pq

Pick one by name and open it:

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(dialect, cfg.DatabaseURL)

SQLite connections always enable foreign keys and a busy timeout, and are
limited to a single open connection.

# Schema Creation

	if err := db.CreateSchema(conn, dialect); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: id, question, created_at
  - option: id, poll_id, text, votes

# Relationships

	poll 1──* option

option.poll_id uses ON DELETE CASCADE.
*/
package db
