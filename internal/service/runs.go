package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/dedupe"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
	"github.com/ericogr/chimera-descent/internal/retry"
	"github.com/ericogr/chimera-descent/internal/storage"
)

// CreateRunRequest selects a character, its talents and the loadout for a
// new run. Loadout entries are ids from the content tables.
type CreateRunRequest struct {
	PlayerName string           `json:"player_name"`
	Character  game.CharacterID `json:"character"`
	Talents    []game.TalentID  `json:"talents"`
	Equipment  []string         `json:"equipment"`
	Companions []string         `json:"companions"`
	Difficulty []string         `json:"difficulty"`
}

// CreateRun validates the request and persists a fresh run at full health.
func (s *Service) CreateRun(ctx context.Context, req CreateRunRequest) (*game.RunSnapshot, error) {
	stats, ok := s.content.character(req.Character)
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownCharacter, req.Character)
	}
	if len(req.Talents) > game.TalentTiers {
		return nil, fmt.Errorf("%w: at most %d talents", game.ErrInvalidTalent, game.TalentTiers)
	}
	var talents game.Talents
	copy(talents[:], req.Talents)
	cs, err := game.NewCharacterState(req.Character, talents)
	if err != nil {
		return nil, err
	}

	deck := make([]game.Card, 0, len(stats.StarterDeck))
	for _, id := range stats.StarterDeck {
		card, ok := s.content.card(id)
		if !ok {
			return nil, fmt.Errorf("starter deck of %s references unknown card %q", stats.ID, id)
		}
		deck = append(deck, card)
	}

	equipment, err := pick(req.Equipment, s.content.Equipment, func(e game.Equipment) string { return e.ID })
	if err != nil {
		return nil, err
	}
	companions, err := pick(req.Companions, s.content.Companions, func(c game.Companion) string { return c.ID })
	if err != nil {
		return nil, err
	}
	difficulty, err := pick(req.Difficulty, s.content.Difficulty, func(d game.DifficultyModifier) string { return d.ID })
	if err != nil {
		return nil, err
	}

	run := &game.RunSnapshot{
		RunID:      uuid.NewString(),
		PlayerName: req.PlayerName,
		Character:  cs,
		Deck:       deck,
		Equipment:  equipment,
		Companions: companions,
		Difficulty: difficulty,
		Health:     stats.MaxHealth,
		MaxHealth:  stats.MaxHealth,
		Status:     game.RunActive,
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	logging.Info("run created", logging.Fields{
		constants.LogFieldRunID:     run.RunID,
		constants.LogFieldPlayer:    run.PlayerName,
		constants.LogFieldCharacter: run.Character.ID,
	})
	return run, nil
}

func pick[T any](ids []string, from []T, id func(T) string) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, want := range ids {
		found := false
		for _, v := range from {
			if id(v) == want {
				out = append(out, v)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLoadout, want)
		}
	}
	return out, nil
}

// GetRun returns the latest snapshot of a run.
func (s *Service) GetRun(ctx context.Context, runID string) (*game.RunSnapshot, error) {
	return s.loadRun(ctx, runID)
}

// loadRun reads through the store with retries. Concurrent loads of the same
// run share one request. A snapshot whose save previously failed wins over
// the store and is written back opportunistically.
func (s *Service) loadRun(ctx context.Context, runID string) (*game.RunSnapshot, error) {
	s.mu.Lock()
	pending, dirty := s.pending[runID]
	s.mu.Unlock()
	if dirty {
		if err := s.saveRun(ctx, &pending); err == nil {
			s.mu.Lock()
			delete(s.pending, runID)
			s.mu.Unlock()
		}
		return &pending, nil
	}

	ch := dedupe.RunGroup.DoChan(runID, func() (interface{}, error) {
		var run *game.RunSnapshot
		err := retry.Do(ctx, s.policy, func() error {
			r, err := s.runs.LoadRun(ctx, runID)
			if errors.Is(err, storage.ErrNotFound) {
				return retry.Permanent(ErrRunNotFound)
			}
			if err != nil {
				return err
			}
			run = r
			return nil
		})
		if err != nil {
			return nil, err
		}
		return *run, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		run := res.Val.(game.RunSnapshot)
		return &run, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) saveRun(ctx context.Context, run *game.RunSnapshot) error {
	return retry.Do(ctx, s.policy, func() error {
		return s.runs.SaveRun(ctx, run)
	})
}
