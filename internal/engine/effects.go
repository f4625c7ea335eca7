package engine

import (
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

// Event is delivered to character and companion handlers.
type Event struct {
	Type   game.EventType
	Amount int
	Card   *game.CardInstance
}

// The methods below are the only way handlers mutate a battle. Each one
// clamps, checks for a terminal state and then emits its event.

// emit dispatches ev to the character handler and the companions. Nested
// dispatch is limited to one level.
func (b *Battle) emit(ev Event) {
	if b.over() || b.depth >= maxDispatchDepth {
		return
	}
	b.depth++
	defer func() { b.depth-- }()
	b.handler.Handle(b, ev)
	if !b.over() {
		b.dispatchCompanions(ev)
	}
}

// DamageAdversary deals amount to the adversary, shield first, and
// returns the health lost.
func (b *Battle) DamageAdversary(amount int, source string) int {
	return b.damageAdversary(amount, source, false)
}

func (b *Battle) damageAdversary(amount int, source string, bypassShield bool) int {
	if amount <= 0 || b.over() {
		return 0
	}
	a := &b.s.Adversary
	absorbed := 0
	if !bypassShield {
		absorbed = min(amount, a.Shield)
		a.Shield -= absorbed
	}
	lost := amount - absorbed
	a.Health -= lost
	msg := source + " deals " + strconv.Itoa(amount) + " to " + a.Name
	if absorbed > 0 {
		msg += " (" + strconv.Itoa(absorbed) + " absorbed by shield)"
	}
	b.logf(game.LogPlayer, msg)
	b.clamp()
	b.checkTerminal()
	b.emit(Event{Type: game.EventDamageDealt, Amount: amount})
	return lost
}

// DamagePlayer deals amount to the player. Shield absorbs first unless
// bypassShield is set. It returns the health lost.
func (b *Battle) DamagePlayer(amount int, source string, bypassShield bool) int {
	if amount <= 0 || b.over() {
		return 0
	}
	p := &b.s.Player
	absorbed := 0
	if !bypassShield {
		absorbed = min(amount, p.Shield)
		p.Shield -= absorbed
	}
	lost := amount - absorbed
	p.Health -= lost
	msg := source + " deals " + strconv.Itoa(amount) + " to you"
	if absorbed > 0 {
		msg += " (" + strconv.Itoa(absorbed) + " absorbed by shield)"
	}
	b.logf(game.LogAdversary, msg)
	b.clamp()
	b.checkTerminal()
	if lost > 0 {
		b.emit(Event{Type: game.EventDamageTaken, Amount: lost})
	}
	return lost
}

// GainShield adds already-calculated shield to the player.
func (b *Battle) GainShield(amount int, source string) {
	b.gainShield(amount, source)
}

func (b *Battle) gainShield(amount int, source string) {
	if amount <= 0 || b.over() {
		return
	}
	b.s.Player.Shield += amount
	b.logf(game.LogPlayer, source+" grants "+strconv.Itoa(amount)+" shield")
	b.emit(Event{Type: game.EventShieldGained, Amount: amount})
}

// HealPlayer restores already-calculated healing up to max health.
func (b *Battle) HealPlayer(amount int, source string) {
	if amount <= 0 || b.over() {
		return
	}
	p := &b.s.Player
	gained := min(amount, p.MaxHealth-p.Health)
	p.Health += gained
	b.logf(game.LogPlayer, source+" heals "+strconv.Itoa(gained))
	if gained > 0 {
		b.emit(Event{Type: game.EventPlayerHealed, Amount: gained})
	}
}

// GainEnergy adds energy up to the turn maximum.
func (b *Battle) GainEnergy(amount int, source string) {
	if amount <= 0 || b.over() {
		return
	}
	b.s.Player.Energy = min(b.s.Player.Energy+amount, b.s.Player.MaxEnergy)
	b.logf(game.LogPlayer, source+" restores "+strconv.Itoa(amount)+" energy")
}

// ApplyBurn adds burn stacks to the adversary, including equipment bonus.
func (b *Battle) ApplyBurn(stacks int, source string) {
	if stacks <= 0 || b.over() {
		return
	}
	stacks += game.SumEquipment(b.s.Equipment, game.EquipBurnBonus)
	b.s.Adversary.Status.Burn += stacks
	b.logf(game.LogStatus, source+" applies "+strconv.Itoa(stacks)+" burn")
	b.emit(Event{Type: game.EventBurnApplied, Amount: stacks})
}

// ApplyPoison adds poison stacks to the adversary.
func (b *Battle) ApplyPoison(stacks int, source string) {
	if stacks <= 0 || b.over() {
		return
	}
	b.s.Adversary.Status.Poison += stacks
	b.logf(game.LogStatus, source+" applies "+strconv.Itoa(stacks)+" poison")
	b.emit(Event{Type: game.EventPoisonApplied, Amount: stacks})
}

func (b *Battle) applyWeakness(stacks int, source string) {
	if stacks <= 0 {
		return
	}
	b.s.Adversary.Status.Weakness += stacks
	b.logf(game.LogStatus, source+" applies "+strconv.Itoa(stacks)+" weakness")
}

func (b *Battle) applyConfusion(stacks int, source string) {
	if stacks <= 0 {
		return
	}
	b.s.Adversary.Confusion += stacks
	b.logf(game.LogStatus, source+" confuses "+b.s.Adversary.Name+" ("+strconv.Itoa(b.s.Adversary.Confusion)+" stacks)")
}

func (b *Battle) applyStun(source string) {
	b.s.Adversary.Stunned = true
	b.logf(game.LogStatus, source+" stuns "+b.s.Adversary.Name)
	b.enforcePassives()
}

// applyVulnerable sets the flag until the end of the adversary turn that
// closes turn Turn+turns-1. Reapplication only extends the expiry.
func (b *Battle) applyVulnerable(turns int, source string) {
	if turns <= 0 {
		return
	}
	a := &b.s.Adversary
	until := b.s.Turn + turns - 1
	if !a.Vulnerable || until > a.VulnerableUntilTurn {
		a.VulnerableUntilTurn = until
	}
	a.Vulnerable = true
	b.logf(game.LogStatus, source+" leaves "+a.Name+" vulnerable")
}

// AddNextAttackBonus grants flat damage to damage cards for the rest of
// the turn.
func (b *Battle) AddNextAttackBonus(amount int) {
	b.s.Player.NextAttackBonus += amount
}
