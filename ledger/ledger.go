// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledger decides whether a client already voted in a poll.
//
// The record is a cookie held by the client, one per poll. Nothing is stored
// server side, so a client that drops or forges the cookie can vote again or
// be wrongly blocked.
package ledger

import (
	"net/http"
	"strconv"
	"time"
)

const (
	cookiePrefix = "voted_"
	markerValue  = "true"

	// MaxAge is how long a marker lives in the browser (one year)
	MaxAge = 365 * 24 * time.Hour
)

// CookieReader is the client context the ledger reads from.
// *http.Request satisfies it.
type CookieReader interface {
	Cookie(name string) (*http.Cookie, error)
}

// CookieName returns the marker cookie name scoped to a poll
func CookieName(pollID int64) string {
	return cookiePrefix + strconv.FormatInt(pollID, 10)
}

// HasVoted reports whether the client carries a valid marker for the poll.
// Absent or malformed markers mean the client may vote.
func HasVoted(client CookieReader, pollID int64) bool {
	if client == nil {
		return false
	}
	c, err := client.Cookie(CookieName(pollID))
	if err != nil {
		return false
	}
	return c.Value == markerValue
}

// MarkVoted builds the marker the caller must attach to its response
func MarkVoted(pollID int64) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName(pollID),
		Value:    markerValue,
		Path:     "/",
		MaxAge:   int(MaxAge / time.Second),
		Expires:  time.Now().Add(MaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
