// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/pollster/auth"
	"github.com/danielhkuo/pollster/cliparse"
	"github.com/danielhkuo/pollster/ledger"
	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/testutil"
)

func newTestRouter(t *testing.T, cfg cliparse.Config) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	verifier, err := auth.NewVerifier(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		t.Fatalf("Failed to build verifier: %v", err)
	}
	mux, err := NewRouter(db, cfg, verifier)
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}
	return mux
}

func TestNewRouter_RequiresSecret(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.SessionSecret = ""

	if _, err := NewRouter(testutil.SetupTestDB(t), cfg, nil); err == nil {
		t.Error("Expected an error without a session secret")
	}
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", resp.Status)
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "pollster API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	// Only the exact root matches
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	// Handlers may answer 4xx for missing data; only mux misses are failures
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/polls"},
		{"GET", "/polls/1"},
		{"POST", "/polls"},
		{"POST", "/polls/1/vote"},
		{"GET", "/polls/1/results"},
		{"POST", "/login"},
		{"POST", "/logout"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s not registered", tc.method, tc.path)
			}
			if w.Code == http.StatusNotFound && w.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Route %s %s not registered", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"DELETE", "/polls/1"},
		{"PUT", "/polls"},
		{"GET", "/polls/1/vote"},
		{"GET", "/login"},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/polls", nil))

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("Expected X-Request-ID on logged routes")
	}
}

func TestAdminAndVotingFlow(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	createBody := models.CreatePollRequest{Question: "Tabs or Spaces?", Options: []string{"Tabs", "Spaces"}}

	// Anonymous create is refused and pointed at the login form
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls", createBody, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	var denied models.ErrorResponse
	testutil.AssertJSON(t, w, &denied)
	if denied.Redirect != "/login" {
		t.Errorf("Expected redirect to /login, got %q", denied.Redirect)
	}

	// Log in
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/login", models.LoginRequest{
		Username: "admin",
		Password: testutil.TestAdminPassword,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	session := testutil.ResponseCookie(w, auth.SessionCookieName)
	if session == nil {
		t.Fatal("Missing session cookie")
	}

	// Create
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.WithCookies(testutil.MakeRequest("POST", "/polls", createBody, nil), session))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.CreatePollResponse
	testutil.AssertJSON(t, w, &created)

	// Load options
	pollPath := "/polls/" + strconv.FormatInt(created.PollID, 10)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", pollPath, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var view models.PollView
	testutil.AssertJSON(t, w, &view)
	spaces := view.Poll.Options[1]

	// Vote
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", pollPath+"/vote", map[string]int64{"option_id": spaces.ID}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	marker := testutil.ResponseCookie(w, ledger.CookieName(created.PollID))
	if marker == nil {
		t.Fatal("Missing voted marker")
	}

	// Repeat vote
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.WithCookies(
		testutil.MakeRequest("POST", pollPath+"/vote", map[string]int64{"option_id": spaces.ID}, nil), marker))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Results
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", pollPath+"/results", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.Results
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 1 || results.Tallies[0].Votes != 0 || results.Tallies[1].Votes != 1 {
		t.Errorf("Unexpected results: %+v", results)
	}

	// Logout clears the session
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", "/logout", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if c := testutil.ResponseCookie(w, auth.SessionCookieName); c == nil || c.MaxAge >= 0 {
		t.Error("Expected logout to clear the session cookie")
	}
}

func TestCORS(t *testing.T) {
	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, cfg)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls/1/vote", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Error("Expected Access-Control-Allow-Origin to match request origin")
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials to be 'true'")
		}
	})

	t.Run("request from unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no Access-Control-Allow-Origin for unknown origin")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected the request itself to be served, got %d", w.Code)
		}
	})

	t.Run("wildcard reflects origin", func(t *testing.T) {
		cfg := testutil.GetTestConfig()
		cfg.CORSOrigins = []string{"*"}
		mux := newTestRouter(t, cfg)

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "https://anywhere.example" {
			t.Errorf("Expected reflected origin, got %q", w.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}
