package engine

import (
	"context"
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

// EndTurn ends the player turn, plays out the adversary turn and starts
// the next player turn. Cancelling ctx while the adversary turn is being
// paced abandons the battle.
func (b *Battle) EndTurn(ctx context.Context) error {
	return b.run(ctx,
		b.endPlayerTurn,
		func() error {
			b.tickAdversaryStatuses()
			return nil
		},
		func() error {
			b.runAbilities()
			return nil
		},
		func() error {
			b.adversaryAttack()
			return nil
		},
		func() error {
			b.endAdversaryTurn()
			b.startPlayerTurn()
			return nil
		},
	)
}

func (b *Battle) endPlayerTurn() error {
	if b.s.Phase != game.PhasePlayerTurn {
		return b.reject(ErrNotPlayerTurn)
	}
	p := &b.s.Player
	p.NextAttackBonus = 0
	p.NextAttackBonusPercent = 0
	p.NextCardDiscount = 0
	b.s.CompanionDiscount = 0
	b.logf(game.LogSystem, "You end turn "+strconv.Itoa(b.s.Turn))

	b.emit(Event{Type: game.EventTurnEnd})
	if b.over() {
		return nil
	}
	b.tickPlayerStatuses()
	if b.over() {
		return nil
	}
	b.s.Phase = game.PhaseAdversaryTurn
	return nil
}

// AttackDamage computes the adversary's attack before stun and
// confusion: rolled intent, enrage bonus, affixes, heavy strike,
// difficulty percent and its weakness.
func AttackDamage(s *State) int {
	a := &s.Adversary
	dmg := a.NextAttack + a.AttackBonus + a.AffixMagnitude(game.AffixBrutal)
	if pct := a.AffixMagnitude(game.AffixEnraged); pct > 0 {
		dmg = dmg * (100 + pct) / 100
	}
	if a.HeavyStrikePending {
		dmg *= 2
	}
	if pct := game.SumDifficulty(s.Difficulty, game.DifficultyAdversaryAttackPercent); pct != 0 {
		dmg = dmg * (100 + pct) / 100
	}
	dmg -= a.Status.Weakness
	return max(dmg, 0)
}

func (b *Battle) adversaryAttack() {
	a := &b.s.Adversary
	dmg := AttackDamage(&b.s)
	a.HeavyStrikePending = false

	if b.rollConfusion() {
		b.emit(Event{Type: game.EventAdversaryAttackResolved})
		return
	}
	if a.Stunned {
		dmg /= 2
		a.Stunned = false
		b.logf(game.LogStatus, a.Name+" is stunned and strikes at half strength")
	}
	b.logf(game.LogAdversary, a.Name+" attacks for "+strconv.Itoa(dmg))
	lost := b.DamagePlayer(dmg, a.Name, false)
	if b.over() {
		return
	}
	if pct := b.s.Player.ReflectPercent; pct > 0 && dmg > 0 {
		b.DamageAdversary(dmg*pct/100, "Reflected damage")
		if b.over() {
			return
		}
	}
	if lost > 0 && a.HasAffix(game.AffixCursed) {
		b.addCurse(a.Name)
	}
	b.emit(Event{Type: game.EventAdversaryAttackResolved, Amount: dmg})
}

func (b *Battle) endAdversaryTurn() {
	a := &b.s.Adversary
	if regen := a.AffixMagnitude(game.AffixRegenerating); regen > 0 && a.Health < a.MaxHealth {
		a.Health = min(a.Health+regen, a.MaxHealth)
		b.logf(game.LogAdversary, a.Name+" regenerates "+strconv.Itoa(regen))
	}
	if hard := a.AffixMagnitude(game.AffixHardened); hard > 0 {
		a.Shield += hard
		b.logf(game.LogAdversary, a.Name+" hardens (+"+strconv.Itoa(hard)+" shield)")
	}
	b.expireAdversaryStatuses()
	b.rollNextAttack()
}

func (b *Battle) rollNextAttack() {
	a := &b.s.Adversary
	lo, hi := a.AttackMin, max(a.AttackMax, a.AttackMin)
	a.NextAttack = lo + b.rng.Intn(hi-lo+1)
}

// startPlayerTurn opens turn Turn+1: shield drops, energy refills, held
// cards gain charge and the turn draw happens.
func (b *Battle) startPlayerTurn() {
	b.s.Turn++
	b.s.Phase = game.PhasePlayerTurn
	p := &b.s.Player
	p.Shield = 0
	p.Energy = p.MaxEnergy
	p.ActionsThisTurn = 0
	b.s.CardsPlayedThisTurn = 0
	b.s.DamageCardsThisTurn = 0
	b.pruneLocks()
	b.accrueCharge()
	b.logf(game.LogSystem, "Turn "+strconv.Itoa(b.s.Turn)+" begins")

	draw := b.s.BaseDraw + game.SumEquipment(b.s.Equipment, game.EquipDrawFlat) + b.handler.DrawBonus(&b.s)
	b.drawCards(max(draw, 0))
	b.emit(Event{Type: game.EventTurnStart})
}
