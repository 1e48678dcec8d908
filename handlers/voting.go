// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/pollster/auth"
	"github.com/danielhkuo/pollster/cliparse"
	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/polls"
)

type VotingHandler struct {
	manager *polls.Manager
	cfg     cliparse.Config
}

func NewVotingHandler(manager *polls.Manager, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{manager: manager, cfg: cfg}
}

// CastVote handles POST /polls/{id}/vote
//
// The option comes from JSON {"option_id": ...} or the form field "option".
// An empty body means no option was chosen.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var rawOptionID string
	if middleware.IsFormRequest(r) {
		if err := middleware.ParseForm(r); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidForm)
			return
		}
		rawOptionID = r.PostForm.Get("option")
	} else {
		var req models.CastVoteRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		rawOptionID = string(req.OptionID)
	}

	marker, err := h.manager.CastVote(r.Context(), pollID, rawOptionID, r)
	if errors.Is(err, polls.ErrAlreadyVoted) {
		middleware.RedirectErrorResponse(w, http.StatusConflict, msgAlreadyVoted, resultsURL(pollID))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, marker)

	optionID, _ := strconv.ParseInt(strings.TrimSpace(rawOptionID), 10, 64)
	slog.Info("vote cast",
		"request_id", middleware.RequestID(r.Context()),
		"poll_id", pollID,
		"option_id", optionID,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		PollID:     pollID,
		OptionID:   optionID,
		Message:    "Thanks for voting!",
		ResultsURL: resultsURL(pollID),
	})
}
