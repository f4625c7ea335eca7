package engine

import (
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

func has(s *State, t game.TalentID) bool { return s.Character.Talents.Has(t) }

// --- Warrior: rage from wounds, raw damage ------------------------------

type warrior struct{ BaseCharacter }

const maxRage = 50

func (warrior) OnBattleStart(b *Battle) {
	st := b.s.Character.Warrior
	st.Rage /= 2
	if st.Rage > 0 {
		b.logf(game.LogCharacter, "Carried rage: "+strconv.Itoa(st.Rage))
	}
}

func (warrior) Handle(b *Battle, ev Event) {
	if ev.Type != game.EventDamageTaken || ev.Amount <= 0 {
		return
	}
	gain := ev.Amount
	if has(&b.s, "berserker") {
		gain *= 2
	}
	st := b.s.Character.Warrior
	st.Rage = min(st.Rage+gain, maxRage)
}

func (warrior) DamageBonus(s *State, card game.CardInstance) int {
	if card.Card.Category != game.CategoryDamage {
		return 0
	}
	bonus := min(s.Character.Warrior.Rage/5, 5)
	if has(s, "battle_cry") {
		bonus++
	}
	if has(s, "bloodlust") && s.Player.Health*2 < s.Player.MaxHealth {
		bonus += 3
	}
	return bonus
}

func (warrior) CostDiscount(s *State, card game.CardInstance) int {
	if has(s, "rampage") && card.Card.Category == game.CategoryDamage && s.Character.Warrior.Rage >= 10 {
		return 1
	}
	return 0
}

func (warrior) ShieldBonus(s *State, _ game.CardInstance) int {
	if has(s, "iron_skin") {
		return 2
	}
	return 0
}

func (warrior) HealingBonus(s *State, _ game.CardInstance) int {
	if has(s, "thick_hide") {
		return 2
	}
	return 0
}

func (warrior) VulnerableMultiplier(s *State) float64 {
	if has(s, "executioner") {
		return 2.0
	}
	return DefaultVulnerableMultiplier
}

func (warrior) DeathSaves(s *State) (int, int) {
	if has(s, "second_wind") {
		return 1, 30
	}
	return 0, 0
}

// --- Pyromancer: burn everything ----------------------------------------

type pyromancer struct{ BaseCharacter }

func (pyromancer) Handle(b *Battle, ev Event) {
	st := b.s.Character.Pyromancer
	switch ev.Type {
	case game.EventBurnApplied:
		st.Embers += ev.Amount
		if has(&b.s, "kindling") {
			b.s.Adversary.Status.Burn++
			st.Embers++
		}
	case game.EventDamageDealt:
		if has(&b.s, "wildfire") && b.acquireLock("pyromancer:wildfire", ev.Type) {
			b.ApplyBurn(1, "Wildfire")
		}
	case game.EventTurnStart:
		if has(&b.s, "smoulder") && b.s.Adversary.Status.Burn > 0 {
			b.gainShield(PenalizeShield(2, &b.s), "Smoulder")
		}
	}
}

func (pyromancer) DamageBonus(s *State, card game.CardInstance) int {
	if card.Card.Category != game.CategoryDamage || s.Adversary.Status.Burn == 0 {
		return 0
	}
	bonus := min(s.Character.Pyromancer.Embers/10, 3)
	if has(s, "combustion") {
		bonus += 2
	}
	if has(s, "firestorm") && s.Adversary.Status.Burn >= 5 {
		bonus += 4
	}
	return bonus
}

func (pyromancer) CostDiscount(s *State, card game.CardInstance) int {
	if has(s, "ember_heart") && card.Card.Category == game.CategoryDamage && s.DamageCardsThisTurn == 0 {
		return 1
	}
	return 0
}

func (pyromancer) ShieldBonus(s *State, _ game.CardInstance) int {
	if has(s, "flame_ward") {
		return 2
	}
	return 0
}

func (pyromancer) DeathSaves(s *State) (int, int) {
	if has(s, "rebirth") {
		return 1, 40
	}
	return 0, 0
}

// --- Venomancer: poison that never fades --------------------------------

type venomancer struct{ BaseCharacter }

func (venomancer) Handle(b *Battle, ev Event) {
	switch ev.Type {
	case game.EventPoisonApplied:
		b.s.Character.Venomancer.Toxins += ev.Amount
	case game.EventDamageCardPlayed:
		if has(&b.s, "toxic_blades") {
			b.ApplyPoison(1, "Toxic Blades")
		}
	case game.EventTurnStart:
		if has(&b.s, "miasma") {
			b.ApplyPoison(1, "Miasma")
		}
	case game.EventDamageDealt:
		if has(&b.s, "virulence") && b.s.Adversary.Status.Poison > 0 && b.acquireLock("venomancer:virulence", ev.Type) {
			b.HealPlayer(PenalizeHealing(2, &b.s), "Virulence")
		}
	}
}

func (venomancer) PoisonMultiplier(s *State) int {
	switch {
	case has(s, "plague_lord"):
		return 5
	case has(s, "toxic_mastery"):
		return 3
	}
	return DefaultPoisonMultiplier
}

func (venomancer) DamageBonus(s *State, card game.CardInstance) int {
	if has(s, "corrosion") && card.Card.Category == game.CategoryDamage {
		return s.Adversary.Status.Poison / 3
	}
	return 0
}

func (venomancer) HealingBonus(s *State, _ game.CardInstance) int {
	if has(s, "antivenom") {
		return 2
	}
	return 0
}

func (venomancer) DeathSaves(s *State) (int, int) {
	if has(s, "undying_venom") {
		return 2, 25
	}
	return 0, 0
}

// --- Scholar: card flow and knowledge -----------------------------------

type scholar struct{ BaseCharacter }

const maxInsight = 100

func (scholar) Handle(b *Battle, ev Event) {
	switch ev.Type {
	case game.EventCardDrawn:
		st := b.s.Character.Scholar
		st.Insight = min(st.Insight+1, maxInsight)
	case game.EventTurnStart:
		if has(&b.s, "recall") && len(b.s.Deck.Hand) < 3 {
			b.drawCards(1)
		}
	}
}

func (scholar) DrawBonus(s *State) int {
	if has(s, "deep_study") {
		return 1
	}
	return 0
}

func (scholar) DamageBonus(s *State, card game.CardInstance) int {
	if card.Card.Knowledge == game.KnowledgeNone || card.Card.Category != game.CategoryDamage {
		return 0
	}
	bonus := s.Character.Scholar.Insight / 25
	if has(s, "mind_blade") {
		bonus += 2
	}
	return bonus
}

func (scholar) CostDiscount(s *State, card game.CardInstance) int {
	if has(s, "arcane_discount") && card.Card.Category == game.CategoryDraw {
		return 1
	}
	return 0
}

func (scholar) ShieldBonus(s *State, _ game.CardInstance) int {
	if has(s, "focus") {
		return 1
	}
	return 0
}

func (scholar) HealingBonus(s *State, _ game.CardInstance) int {
	if has(s, "insight") {
		return 2
	}
	return 0
}

func (scholar) VulnerableMultiplier(s *State) float64 {
	if has(s, "epiphany") {
		return 2.0
	}
	return DefaultVulnerableMultiplier
}

func (scholar) DeathSaves(s *State) (int, int) {
	if has(s, "undying_lore") {
		return 2, 25
	}
	return 0, 0
}

// --- Guardian: shields and retaliation ----------------------------------

type guardian struct{ BaseCharacter }

const maxBulwark = 200

func (guardian) OnBattleStart(b *Battle) {
	if has(&b.s, "thorns") {
		b.s.Player.ReflectPercent += 20
	}
	if carry := min(b.s.Character.Guardian.Bulwark/20, 10); carry > 0 {
		b.gainShield(carry, "Bulwark memory")
	}
}

func (guardian) Handle(b *Battle, ev Event) {
	switch ev.Type {
	case game.EventShieldGained:
		st := b.s.Character.Guardian
		st.Bulwark = min(st.Bulwark+ev.Amount, maxBulwark)
	case game.EventDamageTaken:
		if has(&b.s, "retaliation") {
			b.AddNextAttackBonus(2)
			b.logf(game.LogCharacter, "Retaliation readies +2 damage")
		}
	case game.EventTurnStart:
		if has(&b.s, "fortify") {
			b.gainShield(PenalizeShield(3, &b.s), "Fortify")
		}
	}
}

func (guardian) ShieldBonus(s *State, _ game.CardInstance) int {
	if has(s, "bulwark") {
		return 3
	}
	return 0
}

func (guardian) CostDiscount(s *State, card game.CardInstance) int {
	if has(s, "aegis") && card.Card.Category == game.CategoryShield && s.Player.Shield == 0 {
		return 1
	}
	return 0
}

func (guardian) HealingBonus(s *State, _ game.CardInstance) int {
	if has(s, "stalwart") {
		return 2
	}
	return 0
}

func (guardian) VulnerableMultiplier(s *State) float64 {
	if has(s, "vengeance") {
		return 2.0
	}
	return DefaultVulnerableMultiplier
}

func (guardian) DeathSaves(s *State) (int, int) {
	if has(s, "last_stand") {
		return 1, 50
	}
	return 0, 0
}
