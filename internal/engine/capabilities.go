package engine

import (
	"fmt"
	"sync"

	"github.com/ericogr/chimera-descent/internal/game"
)

// Character is the capability handler of one playable character. Handle
// changes the battle only through the Battle mutators and its own
// character sub-state; the bonus hooks must not change anything.
type Character interface {
	ID() game.CharacterID
	OnBattleStart(b *Battle)
	Handle(b *Battle, ev Event)

	DamageBonus(s *State, card game.CardInstance) int
	CostDiscount(s *State, card game.CardInstance) int
	ShieldBonus(s *State, card game.CardInstance) int
	HealingBonus(s *State, card game.CardInstance) int
	DrawBonus(s *State) int
	PoisonMultiplier(s *State) int
	VulnerableMultiplier(s *State) float64
	// DeathSaves returns how many partial restores the talents grant per
	// battle and the percent of max health each one restores.
	DeathSaves(s *State) (uses, percent int)
}

// BaseCharacter implements every hook with neutral values. Concrete
// characters embed it and override what they need.
type BaseCharacter struct {
	CharacterID game.CharacterID
}

func (c BaseCharacter) ID() game.CharacterID { return c.CharacterID }

func (BaseCharacter) OnBattleStart(*Battle) {}

func (BaseCharacter) Handle(*Battle, Event) {}

func (BaseCharacter) DamageBonus(*State, game.CardInstance) int { return 0 }

func (BaseCharacter) CostDiscount(*State, game.CardInstance) int { return 0 }

func (BaseCharacter) ShieldBonus(*State, game.CardInstance) int { return 0 }

func (BaseCharacter) HealingBonus(*State, game.CardInstance) int { return 0 }

func (BaseCharacter) DrawBonus(*State) int { return 0 }

func (BaseCharacter) PoisonMultiplier(*State) int { return DefaultPoisonMultiplier }

func (BaseCharacter) VulnerableMultiplier(*State) float64 { return DefaultVulnerableMultiplier }

func (BaseCharacter) DeathSaves(*State) (int, int) { return 0, 0 }

// Registry maps character ids to their handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[game.CharacterID]Character
}

func NewRegistry(chars ...Character) *Registry {
	r := &Registry{handlers: make(map[game.CharacterID]Character, len(chars))}
	for _, c := range chars {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the handler for c.ID().
func (r *Registry) Register(c Character) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[c.ID()] = c
}

// Lookup returns the handler registered for id.
func (r *Registry) Lookup(id game.CharacterID) (Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.handlers[id]
	if !ok {
		return nil, fmt.Errorf("%w: no handler for %q", game.ErrUnknownCharacter, id)
	}
	return c, nil
}

// DefaultRegistry returns a registry with every built-in character.
func DefaultRegistry() *Registry {
	return NewRegistry(
		warrior{BaseCharacter{game.Warrior}},
		pyromancer{BaseCharacter{game.Pyromancer}},
		venomancer{BaseCharacter{game.Venomancer}},
		scholar{BaseCharacter{game.Scholar}},
		guardian{BaseCharacter{game.Guardian}},
	)
}
