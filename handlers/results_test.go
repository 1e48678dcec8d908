// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/testutil"
)

func resultsRequest(pollID string) *http.Request {
	req := httptest.NewRequest("GET", "/polls/"+pollID+"/results", nil)
	req.SetPathValue("id", pollID)
	return req
}

func TestGetResults(t *testing.T) {
	manager, db := newTestManager(t)
	handler := NewResultsHandler(manager)

	pollID, opts := testutil.CreateTestPoll(t, db, "Favorite season?", "Spring", "Summer", "Autumn", "Winter")
	for _, v := range []struct {
		optionID int64
		votes    int
	}{{opts[0], 1}, {opts[1], 3}} {
		if _, err := db.Exec(`UPDATE option SET votes = $1 WHERE id = $2`, v.votes, v.optionID); err != nil {
			t.Fatalf("Failed to set votes: %v", err)
		}
	}

	w := httptest.NewRecorder()
	handler.GetResults(w, resultsRequest(idString(pollID)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Results
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalVotes != 4 {
		t.Errorf("Expected total_votes 4, got %d", resp.TotalVotes)
	}
	if len(resp.Tallies) != 4 || len(resp.Poll.Options) != 4 {
		t.Fatalf("Expected 4 tallies and options, got %d and %d", len(resp.Tallies), len(resp.Poll.Options))
	}

	expected := []struct {
		text    string
		votes   int64
		percent float64
	}{
		{"Spring", 1, 25},
		{"Summer", 3, 75},
		{"Autumn", 0, 0},
		{"Winter", 0, 0},
	}
	for i, exp := range expected {
		got := resp.Tallies[i]
		if got.Text != exp.text || got.Votes != exp.votes || got.Percent != exp.percent {
			t.Errorf("Tally %d: expected %+v, got %+v", i, exp, got)
		}
	}
}

func TestGetResults_NoVotes(t *testing.T) {
	manager, db := newTestManager(t)
	handler := NewResultsHandler(manager)

	pollID, _ := testutil.CreateTestPoll(t, db, "Anyone?", "A", "B")

	w := httptest.NewRecorder()
	handler.GetResults(w, resultsRequest(idString(pollID)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Results
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalVotes != 0 {
		t.Errorf("Expected total_votes 0, got %d", resp.TotalVotes)
	}
}

func TestGetResults_NotFound(t *testing.T) {
	manager, _ := newTestManager(t)
	handler := NewResultsHandler(manager)

	for _, id := range []string{"9999", "abc", "-1"} {
		w := httptest.NewRecorder()
		handler.GetResults(w, resultsRequest(id))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	}
}

func TestGetResults_StoreFailure(t *testing.T) {
	manager, db := newTestManager(t)
	handler := NewResultsHandler(manager)

	pollID, _ := testutil.CreateTestPoll(t, db, "Gone?", "A", "B")
	db.Close()

	w := httptest.NewRecorder()
	handler.GetResults(w, resultsRequest(idString(pollID)))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Internal error" {
		t.Errorf("Expected generic message, got %q", resp.Message)
	}
}
