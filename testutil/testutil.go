// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/pollster/cliparse"
	"github.com/danielhkuo/pollster/db"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/store"
)

// TestAdminPassword is the password GetTestConfig configures for "admin"
const TestAdminPassword = "admin123"

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "polls.db")
	conn, err := db.Open(db.DialectSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8000,
		DatabaseURL:   "file::memory:",
		DatabaseType:  "sqlite",
		AdminUsername: "admin",
		AdminPassword: TestAdminPassword,
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
		CORSOrigins:   []string{"http://localhost:5173"},
		LogLevel:      "error",
		LogFormat:     "text",
	}
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestPoll creates a poll with zero-vote options and returns the poll
// ID followed by the option IDs in the order given
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, options ...string) (int64, []int64) {
	t.Helper()

	opts := make([]models.NewOption, 0, len(options))
	for _, text := range options {
		opts = append(opts, models.NewOption{Text: text})
	}

	st := store.New(conn)
	pollID, err := st.CreatePollWithOptions(context.Background(), question, opts)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	poll, err := st.GetPoll(context.Background(), pollID)
	if err != nil {
		t.Fatalf("Failed to load test poll: %v", err)
	}

	optionIDs := make([]int64, 0, len(poll.Options))
	for _, opt := range poll.Options {
		optionIDs = append(optionIDs, opt.ID)
	}

	return pollID, optionIDs
}

// GetVotes reads an option's counter straight from the database
func GetVotes(t *testing.T, conn *sql.DB, optionID int64) int64 {
	t.Helper()

	var votes int64
	if err := conn.QueryRow(`SELECT votes FROM option WHERE id = $1`, optionID).Scan(&votes); err != nil {
		t.Fatalf("Failed to read votes for option %d: %v", optionID, err)
	}
	return votes
}

// CountPolls returns the number of poll rows
func CountPolls(t *testing.T, conn *sql.DB) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM poll`).Scan(&n); err != nil {
		t.Fatalf("Failed to count polls: %v", err)
	}
	return n
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

// MakeFormRequest creates a urlencoded form request, as a browser would send
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// MakeMultipartRequest creates a multipart/form-data request carrying form
func MakeMultipartRequest(method, path string, form url.Values) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			_ = mw.WriteField(key, v)
		}
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// WithCookies adds cookies to a request and returns it
func WithCookies(req *http.Request, cookies ...*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// ResponseCookie returns the named cookie set by a response, or nil
func ResponseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
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
