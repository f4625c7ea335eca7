package engine

import (
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

// checkTerminal runs after every health-reducing mutation. The player's
// defeat is always evaluated before the adversary's death so a death
// save gets the first chance when both reach zero together.
func (b *Battle) checkTerminal() {
	for !b.over() {
		if b.s.Player.Health <= 0 && !b.tryDeathSave() {
			b.conclude(game.PhaseDefeat)
			return
		}
		if b.s.Adversary.Health > 0 {
			return
		}
		if b.fireDeathAbilities() {
			b.clamp()
			continue
		}
		b.conclude(game.PhaseVictory)
	}
}

// tryDeathSave applies the first available save: the once-per-battle
// revive relic, then the talent restores.
func (b *Battle) tryDeathSave() bool {
	p := &b.s.Player
	if !b.s.ReviveUsed {
		if pct := game.SumEquipment(b.s.Equipment, game.EquipRevivePercent); pct > 0 {
			b.s.ReviveUsed = true
			p.Health = max(1, p.MaxHealth*pct/100)
			b.logf(game.LogPlayer, "Your relic revives you with "+strconv.Itoa(p.Health)+" health")
			return true
		}
	}
	uses, pct := b.handler.DeathSaves(&b.s)
	if b.s.RestoresUsed < uses && pct > 0 {
		b.s.RestoresUsed++
		p.Health = max(1, p.MaxHealth*pct/100)
		b.logf(game.LogCharacter, "You refuse to fall and recover "+strconv.Itoa(p.Health)+" health")
		return true
	}
	return false
}

func (b *Battle) conclude(phase game.Phase) {
	b.s.Phase = phase
	switch phase {
	case game.PhaseVictory:
		for _, c := range b.s.Deck.All() {
			if c.Card.Curse {
				b.s.Deck.Remove(c.InstanceID)
			}
		}
		b.logf(game.LogSystem, "Victory! "+b.s.Adversary.Name+" is defeated")
	case game.PhaseDefeat:
		b.logf(game.LogSystem, "Defeat. You fall to "+b.s.Adversary.Name)
	case game.PhaseAbandoned:
		b.logf(game.LogSystem, "You flee the battle")
	}
}

// Abandon ends the battle immediately. It does not wait for an in-flight
// command; that command stops at its next step boundary.
func (b *Battle) Abandon() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.over() {
		return b.reject(ErrBattleOver)
	}
	b.conclude(game.PhaseAbandoned)
	return nil
}

// Result is what a concluded battle hands back to the run.
type Result struct {
	BattleID      string              `json:"battle_id"`
	RunID         string              `json:"run_id"`
	Outcome       game.Phase          `json:"outcome"`
	Turns         int                 `json:"turns"`
	Health        int                 `json:"health"`
	MaxHealth     int                 `json:"max_health"`
	Character     game.CharacterState `json:"character"`
	Deck          []game.Card         `json:"deck"`
	LastCardType  game.CardCategory   `json:"last_card_type"`
	AdversaryKey  string              `json:"adversary_key"`
	AdversaryTier game.AdversaryTier  `json:"adversary_tier"`
	// Poison is the death venom the player takes into the next battle.
	Poison int `json:"poison"`
}

// Result returns the outcome once the battle has concluded.
func (b *Battle) Result() (Result, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.over() {
		return Result{}, false
	}
	all := b.s.Deck.All()
	deck := make([]game.Card, 0, len(all))
	for _, c := range all {
		deck = append(deck, c.Card)
	}
	return Result{
		BattleID:      b.s.ID,
		RunID:         b.s.RunID,
		Outcome:       b.s.Phase,
		Turns:         b.s.Turn,
		Health:        b.s.Player.Health,
		MaxHealth:     b.s.Player.MaxHealth,
		Character:     b.s.Character.Clone(),
		Deck:          deck,
		LastCardType:  b.s.LastCardType,
		AdversaryKey:  b.s.Adversary.Key,
		AdversaryTier: b.s.Adversary.Tier,
		Poison:        b.s.LingeringPoison,
	}, true
}
