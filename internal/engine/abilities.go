package engine

import (
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

// runAbilities advances every non-death ability once per adversary turn.
func (b *Battle) runAbilities() {
	for i := range b.s.Adversary.Abilities {
		if b.over() {
			return
		}
		ab := &b.s.Adversary.Abilities[i]
		switch ab.Kind {
		case game.AbilityPeriodic:
			if ab.Period <= 0 {
				continue
			}
			ab.Counter++
			if ab.Counter >= ab.Period {
				ab.Counter = 0
				ab.LastFiredTurn = b.s.Turn
				b.fireAbility(ab)
			}
		case game.AbilityThreshold:
			b.checkThreshold(ab)
		}
	}
	b.enforcePassives()
}

func (b *Battle) fireAbility(ab *game.SpecialAbility) {
	a := &b.s.Adversary
	b.logf(game.LogAbility, a.Name+" uses "+ab.Name)
	switch ab.Effect {
	case game.EffectShieldWall:
		a.Shield += ab.Magnitude
	case game.EffectHeavyStrike:
		a.HeavyStrikePending = true
	case game.EffectIgnite:
		b.s.Player.Status.Burn += ab.Magnitude
	case game.EffectEnfeeble:
		b.s.Player.Status.Weakness += ab.Magnitude
		b.logf(game.LogStatus, "You are weakened ("+strconv.Itoa(b.s.Player.Status.Weakness)+" stacks)")
	case game.EffectCleanse:
		a.Status = game.StatusStacks{}
		a.Confusion = 0
	}
}

// checkThreshold evaluates health and condition triggered abilities.
// Enrage fires once per battle; poison feeder at most once per turn.
func (b *Battle) checkThreshold(ab *game.SpecialAbility) {
	a := &b.s.Adversary
	switch ab.Effect {
	case game.EffectEnrage:
		if ab.Fired || a.Health*100 > a.MaxHealth*ab.ThresholdPercent {
			return
		}
		ab.Fired = true
		ab.LastFiredTurn = b.s.Turn
		a.AttackBonus += ab.Magnitude
		b.logf(game.LogAbility, a.Name+" becomes enraged (+"+strconv.Itoa(ab.Magnitude)+" attack)")
	case game.EffectPoisonFeeder:
		if b.s.Player.Status.Poison <= 0 || (ab.Fired && ab.LastFiredTurn == b.s.Turn) {
			return
		}
		ab.Fired = true
		ab.LastFiredTurn = b.s.Turn
		heal := min(ab.Magnitude, a.MaxHealth-a.Health)
		a.Health += heal
		b.logf(game.LogAbility, a.Name+" feeds on your poison and heals "+strconv.Itoa(heal))
	}
}

// enforcePassives applies always-on abilities. It runs every adversary
// turn and whenever a stun lands.
func (b *Battle) enforcePassives() {
	a := &b.s.Adversary
	for _, ab := range a.Abilities {
		if ab.Kind == game.AbilityPassive && ab.Effect == game.EffectUnstunnable && a.Stunned {
			a.Stunned = false
			b.logf(game.LogAbility, a.Name+" shrugs off the stun")
		}
	}
}

// fireDeathAbilities triggers each death ability once and reports whether
// any fired.
func (b *Battle) fireDeathAbilities() bool {
	fired := false
	for i := range b.s.Adversary.Abilities {
		ab := &b.s.Adversary.Abilities[i]
		if ab.Kind != game.AbilityDeath || ab.Fired {
			continue
		}
		ab.Fired = true
		ab.LastFiredTurn = b.s.Turn
		fired = true
		b.logf(game.LogAbility, b.s.Adversary.Name+" unleashes "+ab.Name+" as it falls")
		switch ab.Effect {
		case game.EffectDeathVenom:
			b.s.Player.Status.Poison += ab.Magnitude
			b.s.LingeringPoison += ab.Magnitude
		case game.EffectDeathBurst:
			p := &b.s.Player
			absorbed := min(ab.Magnitude, p.Shield)
			p.Shield -= absorbed
			p.Health -= ab.Magnitude - absorbed
		}
	}
	return fired
}
