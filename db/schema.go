// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Election ids and counters are decimal TEXT so the whole uint64 range fits
// in both sqlite and postgres.
const schema = `
-- Elections, live and finalized
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    state TEXT NOT NULL CHECK (state IN ('live', 'finalized')),
    office TEXT NOT NULL,
    payload TEXT NOT NULL,
    saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_state ON election(state, seq);

-- Accounts known to the registry
CREATE TABLE IF NOT EXISTS account (
    account_id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    external_id TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('admin', 'approved', 'pending'))
);

CREATE INDEX IF NOT EXISTS idx_account_status ON account(status);

-- Counters and state versions
CREATE TABLE IF NOT EXISTS ledger_meta (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
