// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollster/models"
)

type demoPoll struct {
	question string
	options  []models.NewOption
}

var demoPolls = []demoPoll{
	{
		question: "What is your favorite programming language?",
		options: []models.NewOption{
			{Text: "Python", Votes: 10},
			{Text: "JavaScript", Votes: 8},
			{Text: "Rust", Votes: 5},
			{Text: "Go", Votes: 3},
		},
	},
	{
		question: "Best time to code?",
		options: []models.NewOption{
			{Text: "Early Morning", Votes: 4},
			{Text: "Late Night", Votes: 15},
			{Text: "Afternoon", Votes: 2},
		},
	},
	{
		question: "Tabs or Spaces?",
		options: []models.NewOption{
			{Text: "Tabs", Votes: 12},
			{Text: "Spaces", Votes: 20},
			{Text: "Mixed (Chaos)", Votes: 1},
		},
	},
}

// Seed fills an empty store with demonstration polls. It reports whether
// anything was written; a store that already has polls is left alone.
func (m *Manager) Seed(ctx context.Context) (bool, error) {
	const op = "polls.Seed"

	log := m.log.With(slog.String("op", op))

	n, err := m.store.CountPolls(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		log.Debug("store not empty, skipping seed", slog.Int("polls", n))
		return false, nil
	}

	var votes int64
	for _, demo := range demoPolls {
		if _, err := m.store.CreatePollWithOptions(ctx, demo.question, demo.options); err != nil {
			return false, fmt.Errorf("%s: %q: %w", op, demo.question, err)
		}
		for _, opt := range demo.options {
			votes += opt.Votes
		}
	}

	log.Info("database seeded",
		slog.Int("polls", len(demoPolls)),
		slog.String("votes", humanize.Comma(votes)),
	)
	return true, nil
}
