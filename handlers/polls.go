// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollster/ledger"
	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/polls"
)

type PollHandler struct {
	manager *polls.Manager
}

func NewPollHandler(manager *polls.Manager) *PollHandler {
	return &PollHandler{manager: manager}
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	all, err := h.manager.ListPolls(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	summaries := make([]models.PollSummary, 0, len(all))
	for _, p := range all {
		summaries = append(summaries, models.PollSummary{
			ID:          p.ID,
			Question:    p.Question,
			CreatedAt:   p.CreatedAt,
			CreatedAgo:  humanize.Time(p.CreatedAt),
			OptionCount: len(p.Options),
			TotalVotes:  p.TotalVotes(),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.manager.GetPoll(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollView{
		Poll:     poll,
		HasVoted: ledger.HasVoted(r, pollID),
	})
}

// CreatePoll handles POST /polls (admin only).
// Accepts JSON or a form with "question" and repeated "options" fields.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if middleware.IsFormRequest(r) {
		if err := middleware.ParseForm(r); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidForm)
			return
		}
		req.Question = r.PostForm.Get("question")
		req.Options = r.PostForm["options"]
	} else if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	pollID, err := h.manager.CreatePoll(r.Context(), req.Question, req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}

	admin, _ := middleware.AdminFromContext(r.Context())
	slog.Info("poll created", "poll_id", pollID, "admin", admin)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:  pollID,
		Message: "Poll created successfully!",
	})
}
