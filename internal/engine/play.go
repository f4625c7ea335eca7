package engine

import (
	"context"
	"strconv"

	"github.com/ericogr/chimera-descent/internal/game"
)

// PlayCard plays the hand card at handIndex, which must be instanceID.
// Rejected commands leave the state unchanged apart from a log entry.
// After the card resolves, card_played fires, then damage_card_played for
// damage cards, and only then is the card's category recorded for combos.
func (b *Battle) PlayCard(ctx context.Context, instanceID string, handIndex int) error {
	var played game.CardInstance
	return b.run(ctx,
		func() error {
			var err error
			played, err = b.payForCard(instanceID, handIndex)
			return err
		},
		func() error {
			b.resolveCard(played)
			b.emit(Event{Type: game.EventCardPlayed, Card: &played})
			if played.Card.Category == game.CategoryDamage {
				b.emit(Event{Type: game.EventDamageCardPlayed, Card: &played})
			}
			b.s.LastCardType = played.Card.Category
			return nil
		},
	)
}

func (b *Battle) payForCard(instanceID string, handIndex int) (game.CardInstance, error) {
	if b.s.Phase != game.PhasePlayerTurn {
		return game.CardInstance{}, b.reject(ErrNotPlayerTurn)
	}
	if handIndex < 0 || handIndex >= len(b.s.Deck.Hand) {
		return game.CardInstance{}, b.reject(ErrInvalidHandIndex)
	}
	card := b.s.Deck.Hand[handIndex]
	if card.InstanceID != instanceID {
		return game.CardInstance{}, b.reject(ErrCardMismatch)
	}
	cost := CalculateCost(card, &b.s, b.handler)
	if cost > b.s.Player.Energy {
		return game.CardInstance{}, b.reject(ErrInsufficientEnergy)
	}

	b.s.Player.Energy -= cost
	played := b.removeFromHand(handIndex)
	b.s.Player.NextCardDiscount = 0
	b.s.CompanionDiscount = 0
	b.s.CardsPlayedThisTurn++
	b.s.Player.ActionsThisTurn++
	b.logf(game.LogPlayer, "You play "+card.Card.Name+" (cost "+strconv.Itoa(cost)+")")
	return played, nil
}

// resolveCard applies the primary effect and then each secondary effect,
// stopping as soon as the battle concludes.
func (b *Battle) resolveCard(card game.CardInstance) {
	c := card.Card
	switch c.Category {
	case game.CategoryDamage:
		dmg := CalculateDamage(card, &b.s, b.handler)
		b.s.Player.NextAttackBonus = 0
		b.s.Player.NextAttackBonusPercent = 0
		b.s.DamageCardsThisTurn++
		b.DamageAdversary(dmg.Total, c.Name)
		if b.over() {
			return
		}
		if thorns := b.s.Adversary.AffixMagnitude(game.AffixThorny); thorns > 0 {
			b.DamagePlayer(thorns, b.s.Adversary.Name+"'s thorns", false)
		}
	case game.CategoryShield:
		amount := CalculateShield(card, &b.s, b.handler)
		b.gainShield(amount, c.Name)
	case game.CategoryHeal:
		amount := CalculateHealing(card, &b.s, b.handler)
		b.HealPlayer(amount, c.Name)
	case game.CategoryDraw:
		b.drawCards(c.Value)
	}
	if b.over() {
		return
	}
	b.resolveSecondary(card)
}

func (b *Battle) resolveSecondary(card game.CardInstance) {
	c := card.Card
	effects := []func(){
		func() { b.DamageAdversary(c.SecondaryDamage, c.Name) },
		func() { b.gainShield(PenalizeShield(c.SecondaryShield, &b.s), c.Name) },
		func() { b.HealPlayer(PenalizeHealing(c.SecondaryHeal, &b.s), c.Name) },
		func() { b.GainEnergy(c.EnergyRefund, c.Name) },
		func() { b.drawCards(c.DrawCount) },
		func() { b.discardCards(c.DiscardCount) },
		func() { b.DamagePlayer(c.SelfDamage, c.Name, true) },
		func() { b.ApplyBurn(c.ApplyBurn, c.Name) },
		func() { b.ApplyPoison(c.ApplyPoison, c.Name) },
		func() { b.applyWeakness(c.ApplyWeakness, c.Name) },
		func() { b.applyConfusion(c.ApplyConfusion, c.Name) },
		func() {
			if c.ApplyStun {
				b.applyStun(c.Name)
			}
		},
		func() { b.applyVulnerable(c.VulnerableTurns, c.Name) },
		func() {
			b.s.Player.NextAttackBonus += c.NextAttackBonus
			b.s.Player.NextAttackBonusPercent += c.NextAttackBonusPercent
			b.s.Player.NextCardDiscount += c.NextCardDiscount
		},
		func() { b.primeHand(c.PrimeHand, c.Name) },
	}
	for _, apply := range effects {
		if b.over() {
			return
		}
		apply()
	}
}
