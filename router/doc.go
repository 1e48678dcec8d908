// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollster API.

# Route Registration

NewRouter builds the store, lifecycle manager and session issuer, registers
every endpoint and wraps the mux in CORS:

	handler, err := router.NewRouter(db, cfg, verifier)

NewMux does the registration alone, for callers that bring their own
collaborators.

# Endpoints

Health:

	GET /health

Polls:

	GET  /polls              - List polls, newest first
	GET  /polls/{id}         - Poll, options and has_voted
	POST /polls              - Create poll (admin session)

Voting and results (public):

	POST /polls/{id}/vote    - Cast a vote
	GET  /polls/{id}/results - Live results

Admin session:

	POST /login  - Exchange credentials for a session cookie
	POST /logout - Drop the session cookie

# CORS

Origins come from cfg.CORSOrigins. Credentials are allowed so browsers
send the voted and session cookies; "*" reflects any origin.
*/
package router
