// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Every request gets a UUID request id. A valid X-Request-ID sent by the
client is reused; otherwise one is generated. The id is echoed in the
response header, attached to each log line and available through
RequestID(ctx). Completion is logged with status, bytes and duration_ms.

# Admin Sessions

Guard admin-only handlers:

	mux.HandleFunc("POST /polls", middleware.WithLogging(
		middleware.RequireAdmin(sessions, pollHandler.CreatePoll)))

Requests without a valid session cookie get 401 with redirect "/login".
The admin username is available through AdminFromContext.
SessionCookie and ClearSessionCookie build the cookie set on login and
cleared on logout.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.RedirectErrorResponse(w, http.StatusConflict, "message", "/polls/1/results")

Parse request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

IsFormRequest tells HTML form posts apart from JSON.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Only a salted hash of it is ever logged.
*/
package middleware
