// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and persists engine and
registry state.

# Drivers

Open accepts the DATABASE_TYPE values "sqlite" (modernc.org/sqlite, pure Go)
and "postgres" (github.com/lib/pq):

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

For sqlite the URL is a file path. A busy timeout and foreign keys are
enabled unless the path already carries query parameters.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: one row per election, state live or finalized, ordered by seq;
    the full record is a JSON payload
  - account: the registry, with status admin, approved or pending
  - ledger_meta: the next election id and the state versions

# Snapshots

Store writes whole snapshots inside a transaction. Each snapshot carries the
version of the in-memory state it was taken from, and a save whose version
is not newer than the stored one is skipped:

	store := db.NewStore(conn)
	written, err := store.SaveElections(ctx, engine.Snapshot())

This lets concurrent requests persist without ordering their writes: the
newest state always wins.
*/
package db
