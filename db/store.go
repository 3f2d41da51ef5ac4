// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/registry"
)

const (
	metaNextElectionID   = "next_election_id"
	metaElectionsVersion = "elections_version"
	metaAccountsVersion  = "accounts_version"
)

// Store persists engine and registry snapshots
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveElections replaces the stored elections with snap. It reports false
// without writing when the stored state is at least as new as snap.
func (s *Store) SaveElections(ctx context.Context, snap election.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored, found, err := readCounter(ctx, tx, metaElectionsVersion)
	if err != nil {
		return false, err
	}
	if found && stored >= snap.Version {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM election`); err != nil {
		return false, fmt.Errorf("failed to clear elections: %w", err)
	}

	now := time.Now().UTC()
	insert := func(seq int, state string, el election.Election) error {
		payload, err := json.Marshal(el)
		if err != nil {
			return fmt.Errorf("failed to encode election %d: %w", el.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO election (id, seq, state, office, payload, saved_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, strconv.FormatUint(el.ID, 10), seq, state, el.Office, string(payload), now)
		if err != nil {
			return fmt.Errorf("failed to store election %d: %w", el.ID, err)
		}
		return nil
	}

	for i, el := range snap.Live {
		if err := insert(i, "live", el); err != nil {
			return false, err
		}
	}
	for i, el := range snap.Finalized {
		if err := insert(i, "finalized", el); err != nil {
			return false, err
		}
	}

	if err := writeCounter(ctx, tx, metaNextElectionID, snap.NextID); err != nil {
		return false, err
	}
	if err := writeCounter(ctx, tx, metaElectionsVersion, snap.Version); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit elections: %w", err)
	}
	return true, nil
}

// LoadElections reads the stored elections. found is false on a fresh database.
func (s *Store) LoadElections(ctx context.Context) (snap election.Snapshot, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, found, err := readCounter(ctx, s.db, metaElectionsVersion)
	if err != nil || !found {
		return election.Snapshot{}, false, err
	}
	nextID, _, err := readCounter(ctx, s.db, metaNextElectionID)
	if err != nil {
		return election.Snapshot{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT state, payload FROM election ORDER BY state, seq
	`)
	if err != nil {
		return election.Snapshot{}, false, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	snap = election.Snapshot{
		Live:      []election.Election{},
		Finalized: []election.Election{},
		NextID:    nextID,
		Version:   version,
	}
	for rows.Next() {
		var state, payload string
		if err := rows.Scan(&state, &payload); err != nil {
			return election.Snapshot{}, false, fmt.Errorf("failed to scan election: %w", err)
		}
		var el election.Election
		if err := json.Unmarshal([]byte(payload), &el); err != nil {
			return election.Snapshot{}, false, fmt.Errorf("failed to decode election: %w", err)
		}
		if state == "live" {
			snap.Live = append(snap.Live, el)
		} else {
			snap.Finalized = append(snap.Finalized, el)
		}
	}
	if err := rows.Err(); err != nil {
		return election.Snapshot{}, false, fmt.Errorf("failed to read elections: %w", err)
	}
	return snap, true, nil
}

// SaveAccounts replaces the stored accounts with snap, skipping stale snapshots
func (s *Store) SaveAccounts(ctx context.Context, snap registry.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored, found, err := readCounter(ctx, tx, metaAccountsVersion)
	if err != nil {
		return false, err
	}
	if found && stored >= snap.Version {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM account`); err != nil {
		return false, fmt.Errorf("failed to clear accounts: %w", err)
	}

	seq := 0
	insert := func(u election.User, status string) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO account (account_id, seq, name, external_id, status)
			VALUES ($1, $2, $3, $4, $5)
		`, string(u.Identity), seq, u.Name, u.ExternalID, status)
		if err != nil {
			return fmt.Errorf("failed to store account: %w", err)
		}
		seq++
		return nil
	}

	for _, u := range snap.Approved {
		status := "approved"
		if u.Identity == snap.Admin {
			status = "admin"
		}
		if err := insert(u, status); err != nil {
			return false, err
		}
	}
	for _, u := range snap.Pending {
		if err := insert(u, "pending"); err != nil {
			return false, err
		}
	}

	if err := writeCounter(ctx, tx, metaAccountsVersion, snap.Version); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit accounts: %w", err)
	}
	return true, nil
}

// LoadAccounts reads the stored registry. found is false on a fresh database.
func (s *Store) LoadAccounts(ctx context.Context) (snap registry.Snapshot, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, found, err := readCounter(ctx, s.db, metaAccountsVersion)
	if err != nil || !found {
		return registry.Snapshot{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, name, external_id, status FROM account ORDER BY seq
	`)
	if err != nil {
		return registry.Snapshot{}, false, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	snap = registry.Snapshot{Version: version}
	for rows.Next() {
		var id, status string
		var u election.User
		if err := rows.Scan(&id, &u.Name, &u.ExternalID, &status); err != nil {
			return registry.Snapshot{}, false, fmt.Errorf("failed to scan account: %w", err)
		}
		u.Identity = election.Identity(id)

		switch status {
		case "pending":
			snap.Pending = append(snap.Pending, u)
		case "admin":
			snap.Admin = u.Identity
			snap.Approved = append(snap.Approved, u)
		default:
			snap.Approved = append(snap.Approved, u)
		}
	}
	if err := rows.Err(); err != nil {
		return registry.Snapshot{}, false, fmt.Errorf("failed to read accounts: %w", err)
	}
	if snap.Admin == "" {
		return registry.Snapshot{}, false, errors.New("stored accounts have no administrator")
	}
	return snap, true, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readCounter(ctx context.Context, q querier, name string) (uint64, bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM ledger_meta WHERE name = $1`, name).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt %s %q: %w", name, raw, err)
	}
	return v, true, nil
}

func writeCounter(ctx context.Context, tx *sql.Tx, name string, value uint64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_meta (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value
	`, name, strconv.FormatUint(value, 10))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
