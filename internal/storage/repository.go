package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ericogr/chimera-descent/internal/catalog"
	"github.com/ericogr/chimera-descent/internal/game"
)

// ErrNotFound is returned when a run or profile does not exist.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	catalog.Provider

	CreateRun(ctx context.Context, run *game.RunSnapshot) error
	LoadRun(ctx context.Context, runID string) (*game.RunSnapshot, error)
	// SaveRun inserts or replaces the snapshot keyed by RunID.
	SaveRun(ctx context.Context, run *game.RunSnapshot) error

	// RecordOutcome bumps the player's profile counters for one battle.
	RecordOutcome(ctx context.Context, playerName string, outcome game.Phase, at time.Time) error
	GetProfile(ctx context.Context, playerName string) (*game.PlayerProfile, error)
	// Leaderboard
	GetTopPlayers(ctx context.Context, limit int) ([]game.PlayerProfile, error)
}
