// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollster/auth"
	"github.com/danielhkuo/pollster/ledger"
	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Admin logs in
// 2. Admin creates a poll
// 3. A voter sees the poll
// 4. The voter votes and receives the marker
// 5. The same voter is turned away
// 6. A second voter votes
// 7. Verify results
func TestFullVotingWorkflow(t *testing.T) {
	manager, _ := newTestManager(t)
	cfg := testutil.GetTestConfig()

	authHandler, sessions := newTestAuthHandler(t)
	pollHandler := NewPollHandler(manager)
	votingHandler := NewVotingHandler(manager, cfg)
	resultsHandler := NewResultsHandler(manager)
	createPoll := middleware.RequireAdmin(sessions, pollHandler.CreatePoll)

	createReq := models.CreatePollRequest{
		Question: "Tabs or Spaces?",
		Options:  []string{"Tabs", "Spaces"},
	}

	// Anonymous creation is refused
	w := httptest.NewRecorder()
	createPoll(w, testutil.MakeRequest("POST", "/polls", createReq, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Step 1: Log in
	w = httptest.NewRecorder()
	authHandler.Login(w, testutil.MakeRequest("POST", "/login", models.LoginRequest{
		Username: "admin",
		Password: testutil.TestAdminPassword,
	}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Login failed: %d - %s", w.Code, w.Body.String())
	}
	session := testutil.ResponseCookie(w, auth.SessionCookieName)
	if session == nil {
		t.Fatal("Step 1 - Missing session cookie")
	}

	// Step 2: Create the poll
	w = httptest.NewRecorder()
	createPoll(w, testutil.WithCookies(testutil.MakeRequest("POST", "/polls", createReq, nil), session))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create poll failed: %d - %s", w.Code, w.Body.String())
	}
	var createResp models.CreatePollResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	pollID := idString(createResp.PollID)
	t.Logf("Step 2 - Created poll: %s", pollID)

	// Step 3: Voter loads the poll
	req := httptest.NewRequest("GET", "/polls/"+pollID, nil)
	req.SetPathValue("id", pollID)
	w = httptest.NewRecorder()
	pollHandler.GetPoll(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Get poll failed: %d - %s", w.Code, w.Body.String())
	}
	var view models.PollView
	json.NewDecoder(w.Body).Decode(&view)
	if view.HasVoted || len(view.Poll.Options) != 2 {
		t.Fatalf("Step 3 - Unexpected poll view: %+v", view)
	}
	tabs, spaces := view.Poll.Options[0], view.Poll.Options[1]

	// Step 4: Vote for Spaces
	w = httptest.NewRecorder()
	votingHandler.CastVote(w, voteRequest(pollID, map[string]int64{"option_id": spaces.ID}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 4 - Vote failed: %d - %s", w.Code, w.Body.String())
	}
	marker := testutil.ResponseCookie(w, ledger.CookieName(createResp.PollID))
	if marker == nil {
		t.Fatal("Step 4 - Missing voted marker")
	}

	// Step 5: Same voter tries again, for Tabs
	w = httptest.NewRecorder()
	votingHandler.CastVote(w, testutil.WithCookies(voteRequest(pollID, map[string]int64{"option_id": tabs.ID}), marker))
	if w.Code != http.StatusConflict {
		t.Fatalf("Step 5 - Expected 409, got %d - %s", w.Code, w.Body.String())
	}

	// The poll page now reports the vote
	req = httptest.NewRequest("GET", "/polls/"+pollID, nil)
	req.SetPathValue("id", pollID)
	req.AddCookie(marker)
	w = httptest.NewRecorder()
	pollHandler.GetPoll(w, req)
	json.NewDecoder(w.Body).Decode(&view)
	if !view.HasVoted {
		t.Error("Step 5 - Expected has_voted after voting")
	}

	// Step 6: A different voter picks Tabs
	w = httptest.NewRecorder()
	votingHandler.CastVote(w, voteRequest(pollID, map[string]int64{"option_id": tabs.ID}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 6 - Second vote failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 7: Results
	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, resultsRequest(pollID))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Get results failed: %d - %s", w.Code, w.Body.String())
	}
	var results models.Results
	json.NewDecoder(w.Body).Decode(&results)

	if results.TotalVotes != 2 {
		t.Errorf("Expected 2 total votes, got %d", results.TotalVotes)
	}
	for _, tally := range results.Tallies {
		if tally.Votes != 1 || tally.Percent != 50 {
			t.Errorf("Expected 1 vote (50%%) for %s, got %d (%v%%)", tally.Text, tally.Votes, tally.Percent)
		}
	}
	t.Logf("Step 7 - Results: %+v", results.Tallies)
}

// TestSeededPollVote follows a single vote on the seeded "Tabs or Spaces?" poll
func TestSeededPollVote(t *testing.T) {
	manager, _ := newTestManager(t)
	votingHandler := NewVotingHandler(manager, testutil.GetTestConfig())
	resultsHandler := NewResultsHandler(manager)

	if _, err := manager.Seed(t.Context()); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	all, err := manager.ListPolls(t.Context())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var poll models.Poll
	for _, p := range all {
		if p.Question == "Tabs or Spaces?" {
			poll = p
		}
	}
	if poll.ID == 0 {
		t.Fatal("Seeded poll not found")
	}
	pollID := idString(poll.ID)

	w := httptest.NewRecorder()
	votingHandler.CastVote(w, voteRequest(pollID, map[string]int64{"option_id": poll.Options[2].ID}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, resultsRequest(pollID))
	var results models.Results
	testutil.AssertJSON(t, w, &results)

	if results.TotalVotes != 34 {
		t.Errorf("Expected 34 total votes, got %d", results.TotalVotes)
	}
	if results.Tallies[2].Votes != 2 {
		t.Errorf("Expected Mixed (Chaos) at 2 votes, got %d", results.Tallies[2].Votes)
	}
}
