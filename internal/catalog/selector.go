package catalog

import (
	"context"
	"errors"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
)

var ErrNoAdversaries = errors.New("no adversaries available")

// Rand picks an index in [0, n).
type Rand interface {
	Intn(n int) int
}

// Selector chooses the adversary for a battle index. Scripted encounters
// win; otherwise every BossEvery-th battle draws a boss and every
// EliteEvery-th an elite, falling back to lower tiers when a tier is empty.
type Selector struct {
	catalog    Provider
	EliteEvery int
	BossEvery  int
}

func NewSelector(p Provider, eliteEvery, bossEvery int) *Selector {
	return &Selector{catalog: p, EliteEvery: eliteEvery, BossEvery: bossEvery}
}

// TierFor is the tier a battle index draws from when nothing is scripted.
// Battle indexes are zero based, so with BossEvery 10 the tenth battle
// (index 9) is a boss.
func (s *Selector) TierFor(battleIndex int) game.AdversaryTier {
	n := battleIndex + 1
	switch {
	case s.BossEvery > 0 && n%s.BossEvery == 0:
		return game.TierBoss
	case s.EliteEvery > 0 && n%s.EliteEvery == 0:
		return game.TierElite
	default:
		return game.TierRegular
	}
}

func (s *Selector) list(ctx context.Context, tier game.AdversaryTier) ([]game.AdversaryTemplate, error) {
	switch tier {
	case game.TierBoss:
		return s.catalog.ListBoss(ctx)
	case game.TierElite:
		return s.catalog.ListElite(ctx)
	default:
		return s.catalog.ListRegular(ctx)
	}
}

// Select returns the template for battleIndex.
func (s *Selector) Select(ctx context.Context, battleIndex int, rng Rand) (game.AdversaryTemplate, error) {
	if t, ok, err := s.scripted(ctx, battleIndex); err != nil {
		return game.AdversaryTemplate{}, err
	} else if ok {
		return t, nil
	}

	order := []game.AdversaryTier{game.TierBoss, game.TierElite, game.TierRegular}
	start := 0
	for i, t := range order {
		if t == s.TierFor(battleIndex) {
			start = i
		}
	}
	for _, tier := range order[start:] {
		list, err := s.list(ctx, tier)
		if err != nil {
			return game.AdversaryTemplate{}, err
		}
		if len(list) > 0 {
			return list[rng.Intn(len(list))], nil
		}
	}
	return game.AdversaryTemplate{}, ErrNoAdversaries
}

func (s *Selector) scripted(ctx context.Context, battleIndex int) (game.AdversaryTemplate, bool, error) {
	encounters, err := s.catalog.ListScriptedEncounters(ctx)
	if err != nil {
		return game.AdversaryTemplate{}, false, err
	}
	for _, e := range encounters {
		if e.BattleIndex != battleIndex {
			continue
		}
		for _, tier := range []game.AdversaryTier{game.TierRegular, game.TierElite, game.TierBoss} {
			list, err := s.list(ctx, tier)
			if err != nil {
				return game.AdversaryTemplate{}, false, err
			}
			for _, t := range list {
				if t.Key == e.AdversaryKey {
					return t, true, nil
				}
			}
		}
		logging.Warn("scripted encounter references a missing adversary", logging.Fields{constants.LogFieldAdversary: e.AdversaryKey, "battle_index": battleIndex})
	}
	return game.AdversaryTemplate{}, false, nil
}
