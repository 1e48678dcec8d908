// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollster API.

# Handler Types

Each handler is a struct holding the collaborators it needs:

  - PollHandler: listing, viewing and creating polls
  - VotingHandler: casting votes
  - ResultsHandler: live results
  - AuthHandler: admin login and logout

Handlers are created via constructor functions:

	manager := polls.NewManager(logger, store.New(db))
	pollHandler := handlers.NewPollHandler(manager)

# Polls

	GET  /polls      → ListPolls (newest first, with total_votes and created_ago)
	GET  /polls/{id} → GetPoll (includes has_voted for this client)
	POST /polls      → CreatePoll (admin session required)

CreatePoll accepts JSON {"question", "options"} or a form with a
"question" field and repeated "options" fields. Blank options are dropped;
a question and at least two options must remain.

# Voting

	POST /polls/{id}/vote → CastVote

The option comes from JSON {"option_id"} or the form field "option". A
successful vote answers 201 and sets the voted_<id> cookie. A client that
already carries that cookie gets 409 with a redirect to the results.

# Results

	GET /polls/{id}/results → GetResults

Per-option counts, percentages and the total. Results are always public.

# Admin Session

	POST /login  → Login (sets the session cookie)
	POST /logout → Logout (clears it)

# Errors

Every error body is models.ErrorResponse. Validation problems map to 400,
unknown polls to 404, repeat votes to 409, bad credentials to 401 and
anything else to 500 with a generic message.
*/
package handlers
