// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollster/auth"
	"github.com/danielhkuo/pollster/cliparse"
	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/polls"
)

type AuthHandler struct {
	verifier *auth.Verifier
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewAuthHandler(verifier *auth.Verifier, sessions *auth.Sessions, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{verifier: verifier, sessions: sessions, cfg: cfg}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if middleware.IsFormRequest(r) {
		if err := middleware.ParseForm(r); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidForm)
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if !h.verifier.Verify(req.Username, req.Password) {
		slog.Warn("login failed",
			"request_id", middleware.RequestID(r.Context()),
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
		)
		writeError(w, r, polls.ErrUnauthorized)
		return
	}

	token, expiresAt, err := h.sessions.Issue(req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, middleware.SessionCookie(token))
	slog.Info("admin logged in", "request_id", middleware.RequestID(r.Context()))

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message:   "Logged in",
		ExpiresAt: expiresAt,
	})
}

// Logout handles POST /logout. It always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, middleware.ClearSessionCookie())
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}
