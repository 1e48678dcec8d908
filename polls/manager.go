// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/pollster/ledger"
	"github.com/danielhkuo/pollster/models"
	"github.com/danielhkuo/pollster/store"
)

// User-facing messages
const (
	msgCreateInvalid  = "Poll must have a question and at least 2 options."
	msgNoOption       = "Please select an option!"
	msgQuestionLength = "Question must be at most 200 characters."
	msgOptionLength   = "Each option must be at most 100 characters."
)

// Store is the persistence the manager needs
type Store interface {
	CreatePollWithOptions(ctx context.Context, question string, options []models.NewOption) (int64, error)
	GetPoll(ctx context.Context, pollID int64) (models.Poll, error)
	GetOption(ctx context.Context, optionID int64) (models.Option, error)
	ListPolls(ctx context.Context) ([]models.Poll, error)
	IncrementVote(ctx context.Context, optionID int64) error
	CountPolls(ctx context.Context) (int, error)
}

// Manager runs poll creation, voting and tallying on top of a Store
type Manager struct {
	log   *slog.Logger
	store Store
}

func NewManager(log *slog.Logger, st Store) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log, store: st}
}

// CreatePoll validates the question and options and persists them together.
// Options are trimmed and empty ones dropped; at least two must remain.
func (m *Manager) CreatePoll(ctx context.Context, question string, rawOptions []string) (int64, error) {
	const op = "polls.CreatePoll"

	log := m.log.With(slog.String("op", op))

	question = strings.TrimSpace(question)
	options := make([]models.NewOption, 0, len(rawOptions))
	for _, raw := range rawOptions {
		if text := strings.TrimSpace(raw); text != "" {
			options = append(options, models.NewOption{Text: text})
		}
	}

	if question == "" || len(options) < models.MinOptions {
		return 0, newValidationError(msgCreateInvalid)
	}
	if len([]rune(question)) > models.MaxQuestionLength {
		return 0, newValidationError(msgQuestionLength)
	}
	for _, opt := range options {
		if len([]rune(opt.Text)) > models.MaxOptionLength {
			return 0, newValidationError(msgOptionLength)
		}
	}

	pollID, err := m.store.CreatePollWithOptions(ctx, question, options)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			log.Warn("store rejected poll", slog.String("error", err.Error()))
			return 0, newValidationError(msgCreateInvalid)
		}
		log.Error("failed to create poll", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll created", slog.Int64("poll_id", pollID), slog.Int("options", len(options)))
	return pollID, nil
}

// CastVote records one vote for rawOptionID in the poll and returns the
// ledger marker the caller must hand back to the client.
//
// Checks run in order: poll exists, client has not voted, an option was
// chosen, the option belongs to this poll.
func (m *Manager) CastVote(ctx context.Context, pollID int64, rawOptionID string, client ledger.CookieReader) (*http.Cookie, error) {
	const op = "polls.CastVote"

	log := m.log.With(slog.String("op", op), slog.Int64("poll_id", pollID))

	if _, err := m.getPoll(ctx, op, pollID); err != nil {
		return nil, err
	}

	if ledger.HasVoted(client, pollID) {
		log.Info("repeat vote rejected")
		return nil, ErrAlreadyVoted
	}

	rawOptionID = strings.TrimSpace(rawOptionID)
	if rawOptionID == "" {
		return nil, newValidationError(msgNoOption)
	}

	optionID, err := strconv.ParseInt(rawOptionID, 10, 64)
	if err != nil {
		log.Info("unparseable option id", slog.String("option_id", rawOptionID))
		return nil, ErrInvalidOption
	}

	option, err := m.store.GetOption(ctx, optionID)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("unknown option", slog.Int64("option_id", optionID))
		return nil, ErrInvalidOption
	}
	if err != nil {
		log.Error("failed to load option", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if option.PollID != pollID {
		log.Warn("cross-poll vote rejected",
			slog.Int64("option_id", optionID),
			slog.Int64("option_poll_id", option.PollID),
		)
		return nil, ErrInvalidOption
	}

	if err := m.store.IncrementVote(ctx, optionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidOption
		}
		log.Error("failed to record vote", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("vote recorded", slog.Int64("option_id", optionID))
	return ledger.MarkVoted(pollID), nil
}

// GetPoll returns a poll with its options
func (m *Manager) GetPoll(ctx context.Context, pollID int64) (models.Poll, error) {
	return m.getPoll(ctx, "polls.GetPoll", pollID)
}

// GetResults returns the poll with per-option tallies and the total
func (m *Manager) GetResults(ctx context.Context, pollID int64) (models.Results, error) {
	const op = "polls.GetResults"

	poll, err := m.getPoll(ctx, op, pollID)
	if err != nil {
		return models.Results{}, err
	}

	total := poll.TotalVotes()
	tallies := make([]models.Tally, 0, len(poll.Options))
	for _, opt := range poll.Options {
		tallies = append(tallies, models.Tally{
			OptionID: opt.ID,
			Text:     opt.Text,
			Votes:    opt.Votes,
			Percent:  percent(opt.Votes, total),
		})
	}

	return models.Results{
		Poll:       poll,
		Tallies:    tallies,
		TotalVotes: total,
	}, nil
}

// ListPolls returns every poll, most recent first
func (m *Manager) ListPolls(ctx context.Context) ([]models.Poll, error) {
	const op = "polls.ListPolls"

	polls, err := m.store.ListPolls(ctx)
	if err != nil {
		m.log.Error("failed to list polls", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return polls, nil
}

func (m *Manager) getPoll(ctx context.Context, op string, pollID int64) (models.Poll, error) {
	poll, err := m.store.GetPoll(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Poll{}, fmt.Errorf("%s: poll %d: %w", op, pollID, ErrNotFound)
	}
	if err != nil {
		m.log.Error("failed to load poll",
			slog.String("op", op),
			slog.Int64("poll_id", pollID),
			slog.String("error", err.Error()),
		)
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	return poll, nil
}

// percent rounds to one decimal place
func percent(votes, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)*1000/float64(total)) / 10
}
