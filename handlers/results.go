// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/polls"
)

type ResultsHandler struct {
	manager *polls.Manager
}

func NewResultsHandler(manager *polls.Manager) *ResultsHandler {
	return &ResultsHandler{manager: manager}
}

// GetResults handles GET /polls/{id}/results
// Results are public and live; there is no closing step.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	results, err := h.manager.GetResults(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
