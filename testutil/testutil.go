// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/calendar"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/middleware"
)

// Schedule used by election fixtures
var (
	StartDate = calendar.Date{Day: 12, Month: 10, Year: 2001, Hour: 20, Minute: 30}
	EndDate   = calendar.Date{Day: 13, Month: 10, Year: 2001, Hour: 20, Minute: 30}
)

// Instants relative to the fixture schedule
var (
	BeforeStart = time.Date(2001, time.October, 1, 0, 0, 0, 0, time.UTC)
	DuringVote  = time.Date(2001, time.October, 13, 0, 0, 0, 0, time.UTC)
	AfterEnd    = time.Date(2001, time.October, 14, 0, 0, 0, 0, time.UTC)
)

// SetupTestDB creates a fresh sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "test.db",
		DatabaseType:    db.TypeSQLite,
		AccountKeySalt:  "test-account-salt",
		AdminName:       "Admin",
		AdminExternalID: "0",
	}
}

// Clock is a settable time source
type Clock struct {
	Current time.Time
}

func (c *Clock) Now() time.Time {
	return c.Current
}

// Account is a minted id/key pair
type Account struct {
	ID  string
	Key string
}

// NewAccount mints an account valid under cfg's salt
func NewAccount(t *testing.T, cfg cliparse.Config) Account {
	t.Helper()

	id, key, err := auth.MintAccount(cfg.AccountKeySalt)
	if err != nil {
		t.Fatalf("Failed to mint account: %v", err)
	}
	return Account{ID: id, Key: key}
}

// Headers returns the credential headers for a
func (a Account) Headers() map[string]string {
	return map[string]string{
		middleware.HeaderAccountID:  a.ID,
		middleware.HeaderAccountKey: a.Key,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
