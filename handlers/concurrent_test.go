// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/pollster/ledger"
	"github.com/danielhkuo/pollster/testutil"
)

// TestConcurrentVotes verifies that simultaneous votes from distinct clients
// are all counted, with no lost increments
func TestConcurrentVotes(t *testing.T) {
	manager, db := newTestManager(t)
	handler := NewVotingHandler(manager, testutil.GetTestConfig())

	pollID, opts := testutil.CreateTestPoll(t, db, "Concurrent?", "Option A", "Option B", "Option C")
	id := idString(pollID)

	numVoters := 30
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			w := httptest.NewRecorder()
			handler.CastVote(w, voteRequest(id, map[string]int64{"option_id": opts[voterIdx%3]}))

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	var total int64
	for _, optID := range opts {
		votes := testutil.GetVotes(t, db, optID)
		if votes != int64(numVoters/3) {
			t.Errorf("Option %d: expected %d votes, got %d", optID, numVoters/3, votes)
		}
		total += votes
	}
	if total != int64(numVoters) {
		t.Errorf("Expected %d total votes, got %d", numVoters, total)
	}
}

// TestConcurrentRepeatVotes verifies that a client replaying its marker in
// parallel never gets counted
func TestConcurrentRepeatVotes(t *testing.T) {
	manager, db := newTestManager(t)
	handler := NewVotingHandler(manager, testutil.GetTestConfig())

	pollID, opts := testutil.CreateTestPoll(t, db, "Replay?", "Yes", "No")
	id := idString(pollID)
	marker := ledger.MarkVoted(pollID)

	var conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			req := testutil.WithCookies(voteRequest(id, map[string]int64{"option_id": opts[0]}), marker)
			handler.CastVote(w, req)

			if w.Code == http.StatusConflict {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	if conflicts.Load() != 10 {
		t.Errorf("Expected 10 conflicts, got %d", conflicts.Load())
	}
	if votes := testutil.GetVotes(t, db, opts[0]); votes != 0 {
		t.Errorf("Expected 0 votes, got %d", votes)
	}
}

// TestConcurrentCreateAndList runs poll creation alongside listing
func TestConcurrentCreateAndList(t *testing.T) {
	manager, db := newTestManager(t)
	handler := NewPollHandler(manager)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.CreatePoll(w, testutil.MakeRequest("POST", "/polls", map[string]interface{}{
				"question": "Parallel?",
				"options":  []string{"A", "B"},
			}, nil))
			if w.Code != http.StatusCreated {
				failures.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.ListPolls(w, httptest.NewRequest("GET", "/polls", nil))
			if w.Code != http.StatusOK {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("Expected no failures, got %d", failures.Load())
	}
	if n := testutil.CountPolls(t, db); n != 10 {
		t.Errorf("Expected 10 polls, got %d", n)
	}
}
