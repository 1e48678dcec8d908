package models

import (
	"encoding/json"
	"time"
)

// Column bounds shared by validation and schema
const (
	MaxQuestionLength = 200
	MaxOptionLength   = 100
	MinOptions        = 2
)

// Request types

// Options is a list so that form posts with repeated "options" fields map onto it
type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// OptionID stays raw; the lifecycle manager decides what an empty or
// unknown value means.
type CastVoteRequest struct {
	OptionID RawID `json:"option_id"`
}

// RawID accepts a JSON number, a string or null without judging it
type RawID string

func (id *RawID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RawID(s)
		return nil
	}
	*id = RawID(b)
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response types

type CreatePollResponse struct {
	PollID  int64  `json:"poll_id"`
	Message string `json:"message"`
}

type CastVoteResponse struct {
	PollID     int64  `json:"poll_id"`
	OptionID   int64  `json:"option_id"`
	Message    string `json:"message"`
	ResultsURL string `json:"results_url"`
}

type LoginResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PollSummary struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedAgo  string    `json:"created_ago"`
	OptionCount int       `json:"option_count"`
	TotalVotes  int64     `json:"total_votes"`
}

type PollView struct {
	Poll     Poll `json:"poll"`
	HasVoted bool `json:"has_voted"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Domain types

type Poll struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
	Options   []Option  `json:"options"`
}

// TotalVotes is always derived from the options, never stored
func (p Poll) TotalVotes() int64 {
	var total int64
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}

type Option struct {
	ID     int64  `json:"id"`
	PollID int64  `json:"poll_id"`
	Text   string `json:"text"`
	Votes  int64  `json:"votes"`
}

// NewOption is an option to be persisted with a new poll.
// Votes is zero except when seeding demonstration data.
type NewOption struct {
	Text  string
	Votes int64
}

// Tally is one option's share of a poll's votes
type Tally struct {
	OptionID int64   `json:"option_id"`
	Text     string  `json:"text"`
	Votes    int64   `json:"votes"`
	Percent  float64 `json:"percent"`
}

type Results struct {
	Poll       Poll    `json:"poll"`
	Tallies    []Tally `json:"tallies"`
	TotalVotes int64   `json:"total_votes"`
}

// Error response

// Redirect names the page a browser should go to next, such as the results
// after a repeat vote or the login form for an anonymous admin request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
