// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/pollster/models"
)

// Store is the only owner of poll and option state. It is safe for
// concurrent use; every mutation is committed before the method returns.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreatePoll inserts a poll without options and returns its id
func (s *Store) CreatePoll(ctx context.Context, question string) (int64, error) {
	const op = "store.CreatePoll"

	if err := validateQuestion(question); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := insertPoll(ctx, s.db, question, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// CreateOption inserts an option for an existing poll and returns its id
func (s *Store) CreateOption(ctx context.Context, pollID int64, text string, initialVotes int64) (int64, error) {
	const op = "store.CreateOption"

	if err := validateOption(text, initialVotes); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := insertOption(ctx, s.db, pollID, text, initialVotes)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// CreatePollWithOptions inserts a poll and its options in one transaction.
// Either the poll and every option exist afterwards, or nothing does.
func (s *Store) CreatePollWithOptions(ctx context.Context, question string, options []models.NewOption) (int64, error) {
	const op = "store.CreatePollWithOptions"

	if err := validateQuestion(question); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(options) < models.MinOptions {
		return 0, fmt.Errorf("%s: at least %d options are required: %w", op, models.MinOptions, ErrValidation)
	}
	for _, opt := range options {
		if err := validateOption(opt.Text, opt.Votes); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	pollID, err := insertPoll(ctx, tx, question, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, opt := range options {
		if _, err := insertOption(ctx, tx, pollID, opt.Text, opt.Votes); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return pollID, nil
}

// GetPoll returns a poll with its options ordered by creation
func (s *Store) GetPoll(ctx context.Context, pollID int64) (models.Poll, error) {
	const op = "store.GetPoll"

	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, fmt.Errorf("%s: poll %d: %w", op, pollID, ErrNotFound)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, text, votes
		FROM option
		WHERE poll_id = $1
		ORDER BY id
	`, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: options: %w", op, err)
	}
	defer rows.Close()

	poll.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes); err != nil {
			return models.Poll{}, fmt.Errorf("%s: scan option: %w", op, err)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("%s: options: %w", op, err)
	}

	return poll, nil
}

// GetOption returns a single option
func (s *Store) GetOption(ctx context.Context, optionID int64) (models.Option, error) {
	const op = "store.GetOption"

	var opt models.Option
	err := s.db.QueryRowContext(ctx, `
		SELECT id, poll_id, text, votes
		FROM option
		WHERE id = $1
	`, optionID).Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Option{}, fmt.Errorf("%s: option %d: %w", op, optionID, ErrNotFound)
	}
	if err != nil {
		return models.Option{}, fmt.Errorf("%s: %w", op, err)
	}
	return opt, nil
}

// ListPolls returns every poll with its options, most recent first.
// Polls created at the same instant are ordered by id, highest first.
func (s *Store) ListPolls(ctx context.Context) ([]models.Poll, error) {
	const op = "store.ListPolls"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, created_at
		FROM poll
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	polls := []models.Poll{}
	index := make(map[int64]int)
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Question, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: scan poll: %w", op, err)
		}
		p.Options = []models.Option{}
		index[p.ID] = len(polls)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Release the connection before the second query; SQLite runs on one.
	rows.Close()

	optRows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, text, votes
		FROM option
		ORDER BY poll_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: options: %w", op, err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt models.Option
		if err := optRows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes); err != nil {
			return nil, fmt.Errorf("%s: scan option: %w", op, err)
		}
		if i, ok := index[opt.PollID]; ok {
			polls[i].Options = append(polls[i].Options, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: options: %w", op, err)
	}

	return polls, nil
}

// IncrementVote adds one to an option's counter in a single statement,
// so concurrent increments on the same option never lose updates.
func (s *Store) IncrementVote(ctx context.Context, optionID int64) error {
	const op = "store.IncrementVote"

	res, err := s.db.ExecContext(ctx, `
		UPDATE option
		SET votes = votes + 1
		WHERE id = $1
	`, optionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: option %d: %w", op, optionID, ErrNotFound)
	}
	return nil
}

// DeletePoll removes a poll and every option it owns. Options are deleted
// explicitly so the result does not depend on the engine enforcing the
// declared cascade.
func (s *Store) DeletePoll(ctx context.Context, pollID int64) error {
	const op = "store.DeletePoll"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM option WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("%s: options: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: poll %d: %w", op, pollID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// CountPolls returns the number of stored polls
func (s *Store) CountPolls(ctx context.Context) (int, error) {
	const op = "store.CountPolls"

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poll`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func insertPoll(ctx context.Context, q queryer, question string, createdAt time.Time) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO poll (question, created_at)
		VALUES ($1, $2)
		RETURNING id
	`, question, createdAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert poll: %w", err)
	}
	return id, nil
}

func insertOption(ctx context.Context, q queryer, pollID int64, text string, votes int64) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO option (poll_id, text, votes)
		VALUES ($1, $2, $3)
		RETURNING id
	`, pollID, text, votes).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("poll %d does not exist: %w", pollID, ErrValidation)
		}
		return 0, fmt.Errorf("insert option: %w", err)
	}
	return id, nil
}

func validateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question is required: %w", ErrValidation)
	}
	if utf8.RuneCountInString(question) > models.MaxQuestionLength {
		return fmt.Errorf("question exceeds %d characters: %w", models.MaxQuestionLength, ErrValidation)
	}
	return nil
}

func validateOption(text string, votes int64) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("option text is required: %w", ErrValidation)
	}
	if utf8.RuneCountInString(text) > models.MaxOptionLength {
		return fmt.Errorf("option text exceeds %d characters: %w", models.MaxOptionLength, ErrValidation)
	}
	if votes < 0 {
		return fmt.Errorf("initial votes must be non-negative: %w", ErrValidation)
	}
	return nil
}
