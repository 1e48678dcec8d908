// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/rs/cors"

	"github.com/danielhkuo/pollster/auth"
	"github.com/danielhkuo/pollster/cliparse"
	"github.com/danielhkuo/pollster/handlers"
	"github.com/danielhkuo/pollster/middleware"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/polls"
	"github.com/danielhkuo/pollster/store"
)

// NewRouter wires the store, lifecycle manager and handlers onto a mux and
// wraps it in CORS. The verifier is built once by the caller.
func NewRouter(db *sql.DB, cfg cliparse.Config, verifier *auth.Verifier) (http.Handler, error) {
	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	manager := polls.NewManager(slog.Default(), store.New(db))
	mux := NewMux(manager, verifier, sessions, cfg)

	return corsHandler(cfg.CORSOrigins).Handler(mux), nil
}

// NewMux registers every route on a fresh ServeMux
func NewMux(manager *polls.Manager, verifier *auth.Verifier, sessions *auth.Sessions, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(manager)
	votingHandler := handlers.NewVotingHandler(manager, cfg)
	resultsHandler := handlers.NewResultsHandler(manager)
	authHandler := handlers.NewAuthHandler(verifier, sessions, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	})

	// Polls (public reads, admin create)
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls", middleware.WithLogging(middleware.RequireAdmin(sessions, pollHandler.CreatePoll)))

	// Voting and results (public)
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Admin session
	mux.HandleFunc("POST /login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(authHandler.Logout))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollster API v1"))
	})

	return mux
}

func corsHandler(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	}
	// Cookies need the concrete origin echoed back, never "*"
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(opts)
}
