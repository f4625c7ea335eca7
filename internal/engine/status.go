package engine

import (
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

// ConfusionSkipChance is the probability that a confused adversary skips
// its attack: 0.5 per stack, capped at 0.95.
func ConfusionSkipChance(stacks int) float64 {
	if stacks <= 0 {
		return 0
	}
	return min(0.5*float64(stacks), 0.95)
}

// tickPlayerStatuses resolves the player's statuses at the end of the
// player turn. Damage over time ignores shield. Poison applied by
// adversaries always deals one damage per stack.
func (b *Battle) tickPlayerStatuses() {
	st := &b.s.Player.Status
	if st.Burn > 0 {
		dmg := st.Burn * BurnDamagePerStack
		st.Burn--
		b.DamagePlayer(dmg, "Burn", true)
		if b.over() {
			return
		}
	}
	if st.Poison > 0 {
		b.DamagePlayer(st.Poison, "Poison", true)
		if b.over() {
			return
		}
	}
	if st.Weakness > 0 {
		st.Weakness--
	}
}

// tickAdversaryStatuses resolves burn then poison on the adversary at
// the start of its turn. Poison scales with the character multiplier
// and never decays.
func (b *Battle) tickAdversaryStatuses() {
	st := &b.s.Adversary.Status
	if st.Burn > 0 {
		dmg := st.Burn * BurnDamagePerStack
		st.Burn--
		b.damageAdversary(dmg, "Burn", true)
		if b.over() {
			return
		}
	}
	if st.Poison > 0 {
		mult := b.handler.PoisonMultiplier(&b.s)
		b.damageAdversary(st.Poison*mult, "Poison ("+strconv.Itoa(st.Poison)+"x"+strconv.Itoa(mult)+")", true)
	}
}

// rollConfusion consumes one confusion stack and reports whether the
// attack is skipped.
func (b *Battle) rollConfusion() bool {
	a := &b.s.Adversary
	if a.Confusion <= 0 {
		return false
	}
	chance := ConfusionSkipChance(a.Confusion)
	a.Confusion--
	skipped := b.rng.Float64() < chance
	if skipped {
		b.logf(game.LogStatus, a.Name+" is confused and stumbles")
	}
	return skipped
}

// expireAdversaryStatuses runs at the end of the adversary turn.
func (b *Battle) expireAdversaryStatuses() {
	a := &b.s.Adversary
	if a.Status.Weakness > 0 {
		a.Status.Weakness--
	}
	if a.Vulnerable && b.s.Turn >= a.VulnerableUntilTurn {
		a.Vulnerable = false
		a.VulnerableUntilTurn = 0
		b.logf(game.LogStatus, a.Name+" is no longer vulnerable")
	}
}
