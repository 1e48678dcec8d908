// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/polls"
)

const (
	msgNotFound     = "Poll not found"
	msgAlreadyVoted = "You have already voted in this poll!"
	msgBadCreds     = "Invalid credentials"
	msgInternal     = "Internal error"
	msgInvalidJSON  = "Invalid JSON"
	msgInvalidForm  = "Invalid form data"
)

// writeError maps a lifecycle error onto a status and a user-facing message.
// Anything unrecognized is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *polls.ValidationError
	switch {
	case errors.As(err, &ve):
		middleware.ErrorResponse(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, polls.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, polls.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, polls.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, msgAlreadyVoted)
	case errors.Is(err, polls.ErrUnauthorized):
		middleware.RedirectErrorResponse(w, http.StatusUnauthorized, msgBadCreds, middleware.LoginPath)
	default:
		slog.Error("request failed",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msgInternal)
	}
}

// pollIDFromPath reads {id}; anything that is not a positive integer
// cannot name a poll
func pollIDFromPath(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("poll id %q: %w", raw, polls.ErrNotFound)
	}
	return id, nil
}

func resultsURL(pollID int64) string {
	return "/polls/" + strconv.FormatInt(pollID, 10) + "/results"
}
