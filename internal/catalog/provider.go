// Package catalog serves adversary templates to the battle service. Reads go
// through a TTL cache in front of a Provider; provider failures are retried
// and then answered from stale cache or a static roster.
package catalog

import (
	"context"

	"github.com/ericogr/chimera-descent/internal/game"
)

// Provider is the source of adversary templates, usually the database.
type Provider interface {
	ListRegular(ctx context.Context) ([]game.AdversaryTemplate, error)
	ListElite(ctx context.Context) ([]game.AdversaryTemplate, error)
	ListBoss(ctx context.Context) ([]game.AdversaryTemplate, error)
	ListScriptedEncounters(ctx context.Context) ([]game.ScriptedEncounter, error)
}

// Roster is a fixed in-memory catalog. It is the last-resort fallback and
// also a Provider in its own right.
type Roster struct {
	Adversaries []game.AdversaryTemplate
	Encounters  []game.ScriptedEncounter
}

func (r Roster) byTier(tier game.AdversaryTier) []game.AdversaryTemplate {
	var out []game.AdversaryTemplate
	for _, a := range r.Adversaries {
		if a.Tier == tier {
			out = append(out, a)
		}
	}
	return out
}

func (r Roster) ListRegular(context.Context) ([]game.AdversaryTemplate, error) {
	return r.byTier(game.TierRegular), nil
}

func (r Roster) ListElite(context.Context) ([]game.AdversaryTemplate, error) {
	return r.byTier(game.TierElite), nil
}

func (r Roster) ListBoss(context.Context) ([]game.AdversaryTemplate, error) {
	return r.byTier(game.TierBoss), nil
}

func (r Roster) ListScriptedEncounters(context.Context) ([]game.ScriptedEncounter, error) {
	return append([]game.ScriptedEncounter(nil), r.Encounters...), nil
}

// DefaultRoster is used when neither the provider nor the configuration
// has anything to offer.
func DefaultRoster() Roster {
	return Roster{Adversaries: []game.AdversaryTemplate{
		{Key: "training_dummy", Name: "Training Dummy", Tier: game.TierRegular, MaxHealth: 30, AttackMin: 3, AttackMax: 5},
		{Key: "brigand", Name: "Brigand", Tier: game.TierRegular, MaxHealth: 36, AttackMin: 4, AttackMax: 7},
		{Key: "warden", Name: "Warden", Tier: game.TierElite, MaxHealth: 60, Shield: 8, AttackMin: 6, AttackMax: 9,
			Affixes: []game.Affix{{Name: "Plated", Effect: game.AffixHardened, Magnitude: 2}}},
		{Key: "the_chimera", Name: "The Chimera", Tier: game.TierBoss, MaxHealth: 120, Shield: 10, AttackMin: 8, AttackMax: 12,
			Affixes:   []game.Affix{{Name: "Furious", Effect: game.AffixEnraged, Magnitude: 25}},
			Abilities: []game.SpecialAbility{{Name: "Crushing Blow", Kind: game.AbilityPeriodic, Effect: game.EffectHeavyStrike, Period: 3}}},
	}}
}
