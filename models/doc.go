// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON (or form) bodies:

  - CreatePollRequest: question, options
  - CastVoteRequest: option_id (a number, a numeric string or null; kept raw as RawID)
  - LoginRequest: username, password

# Response Types

  - CreatePollResponse: poll_id, message
  - CastVoteResponse: poll_id, option_id, message, results_url
  - LoginResponse: message, expires_at
  - PollSummary: one row of the poll list
  - PollView: a poll plus whether this client already voted
  - Results: poll, per-option tallies, total_votes
  - MessageResponse: message
  - HealthResponse: status
  - ErrorResponse: error, message, redirect

# Domain Types

  - Poll: question, created_at and its options
  - Option: text and vote counter
  - NewOption: option text (and seeded votes) for poll creation
  - Tally: an option's votes and percentage of the total

Poll.TotalVotes is derived from the options on every call.

# Constants

Length limits match the database columns:

	MaxQuestionLength = 200
	MaxOptionLength   = 100
	MinOptions        = 2
*/
package models
