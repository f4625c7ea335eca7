package evaluation

import (
	"context"
	"time"

	"github.com/ericogr/chimera-descent/internal/game"
)

type outcomeRecorder interface {
	RecordOutcome(ctx context.Context, playerName string, outcome game.Phase, at time.Time) error
}

// StatsRecorder updates the player's profile counters.
type StatsRecorder struct {
	repo outcomeRecorder
}

func NewStatsRecorder(repo outcomeRecorder) *StatsRecorder {
	return &StatsRecorder{repo: repo}
}

func (s *StatsRecorder) Name() string { return "stats" }

func (s *StatsRecorder) Evaluate(ctx context.Context, o Outcome) error {
	if o.PlayerName == "" {
		return nil
	}
	return s.repo.RecordOutcome(ctx, o.PlayerName, o.Result, o.At)
}
