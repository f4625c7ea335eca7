package engine

import (
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/keys"
)

// acquireLock takes the once-per-turn lock of entity for event. It
// returns false when the lock is already held this turn. Companions and
// character talents share this single lock table, and companion
// readiness is derived from it.
func (b *Battle) acquireLock(entity string, event game.EventType) bool {
	k := keys.TriggerLock(entity, string(event), b.s.Turn)
	if _, held := b.locks[k]; held {
		return false
	}
	b.locks[k] = b.s.Turn
	return true
}

func (b *Battle) lockHeld(entity string, event game.EventType) bool {
	_, held := b.locks[keys.TriggerLock(entity, string(event), b.s.Turn)]
	return held
}

// pruneLocks drops locks of earlier turns.
func (b *Battle) pruneLocks() {
	for k, turn := range b.locks {
		if turn < b.s.Turn {
			delete(b.locks, k)
		}
	}
}

func companionEntity(c game.Companion) string { return "companion:" + c.ID }

func (b *Battle) dispatchCompanions(ev Event) {
	for _, c := range b.s.Companions {
		if c.Trigger != ev.Type || b.over() {
			continue
		}
		if !b.acquireLock(companionEntity(c), ev.Type) {
			continue
		}
		b.logf(game.LogCompanion, c.Name+" answers "+string(ev.Type))
		b.applyCompanion(c)
	}
}

func (b *Battle) applyCompanion(c game.Companion) {
	switch c.Effect {
	case game.CompanionStrike:
		b.DamageAdversary(c.Magnitude, c.Name)
	case game.CompanionGuard:
		b.gainShield(PenalizeShield(c.Magnitude, &b.s), c.Name)
	case game.CompanionMend:
		b.HealPlayer(PenalizeHealing(c.Magnitude, &b.s), c.Name)
	case game.CompanionSpark:
		b.GainEnergy(c.Magnitude, c.Name)
	case game.CompanionScout:
		b.drawCards(c.Magnitude)
	case game.CompanionKindle:
		b.ApplyBurn(c.Magnitude, c.Name)
	case game.CompanionVenom:
		b.ApplyPoison(c.Magnitude, c.Name)
	case game.CompanionBargain:
		b.s.CompanionDiscount += c.Magnitude
		b.logf(game.LogCompanion, c.Name+" discounts your next card by "+strconv.Itoa(c.Magnitude))
	}
}

// companionsReady projects, per companion id, whether it can still
// trigger this turn.
func (b *Battle) companionsReady() map[string]bool {
	out := make(map[string]bool, len(b.s.Companions))
	for _, c := range b.s.Companions {
		out[c.ID] = !b.lockHeld(companionEntity(c), c.Trigger)
	}
	return out
}
