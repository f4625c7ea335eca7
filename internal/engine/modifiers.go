package engine

import "github.com/ericogr/chimera-descent/internal/game"

// The calculators in this file only read their inputs.

// CalculateCost returns the energy needed to play card now: base cost
// plus difficulty surcharge minus every pending discount, floored at 0.
func CalculateCost(card game.CardInstance, s *State, ch Character) int {
	cost := card.Card.Cost + game.SumDifficulty(s.Difficulty, game.DifficultyCardCostSurcharge)
	discount := card.Discount + s.Player.NextCardDiscount + s.CompanionDiscount
	if s.CardsPlayedThisTurn == 0 {
		discount += game.SumEquipment(s.Equipment, game.EquipFirstCardDiscount)
	}
	if ch != nil {
		discount += ch.CostDiscount(s, card)
	}
	return max(cost-discount, 0)
}

// DamageBreakdown is the result of the damage pipeline for one card.
type DamageBreakdown struct {
	Base       int  `json:"base"`
	Flat       int  `json:"flat"`
	Total      int  `json:"total"`
	Vulnerable bool `json:"vulnerable"`
	Stunned    bool `json:"stunned"`
	Absorbed   int  `json:"absorbed"`
	HealthLoss int  `json:"health_loss"`
}

// CalculateDamage runs the primary damage of card through the pipeline:
// augmented base, flat bonuses, next-attack percent, one vulnerable
// multiplier, stun halving, minimum 1, then the shield split.
func CalculateDamage(card game.CardInstance, s *State, ch Character) DamageBreakdown {
	c := card.Card
	if c.Category != game.CategoryDamage || c.Value <= 0 {
		return DamageBreakdown{}
	}
	base := c.Value + card.ChargeStacks
	if c.ComboAffinity != "" && c.ComboAffinity == s.LastCardType {
		base += c.ComboBonus
	}
	if c.Knowledge == game.KnowledgeDamage {
		base += c.KnowledgeRate * otherCardsInHand(card, s)
	}
	if c.Surge && IsLastPlayable(card, s, ch) {
		base *= 2
	}

	flat := game.SumEquipment(s.Equipment, game.EquipDamageFlat) + s.Player.NextAttackBonus - s.Player.Status.Weakness
	if ch != nil {
		flat += ch.DamageBonus(s, card)
	}
	total := base + flat
	if pct := s.Player.NextAttackBonusPercent; pct > 0 {
		total = total * (100 + pct) / 100
	}

	out := DamageBreakdown{Base: base, Flat: flat}
	if s.Adversary.Vulnerable {
		mult := DefaultVulnerableMultiplier
		if ch != nil {
			mult = ch.VulnerableMultiplier(s)
		}
		total = int(float64(total) * mult)
		out.Vulnerable = true
	}
	if s.Adversary.Stunned {
		total /= 2
		out.Stunned = true
	}
	total = max(total, 1)
	out.Total = total
	out.Absorbed = min(total, s.Adversary.Shield)
	out.HealthLoss = total - out.Absorbed
	return out
}

// CalculateShield returns the shield granted by a shield card.
func CalculateShield(card game.CardInstance, s *State, ch Character) int {
	c := card.Card
	if c.Category != game.CategoryShield {
		return 0
	}
	total := c.Value + game.SumEquipment(s.Equipment, game.EquipShieldFlat)
	if c.Knowledge == game.KnowledgeShield {
		total += c.KnowledgeRate * otherCardsInHand(card, s)
	}
	if ch != nil {
		total += ch.ShieldBonus(s, card)
	}
	return PenalizeShield(total, s)
}

// CalculateHealing returns the healing granted by a heal card.
func CalculateHealing(card game.CardInstance, s *State, ch Character) int {
	c := card.Card
	if c.Category != game.CategoryHeal {
		return 0
	}
	total := c.Value + game.SumEquipment(s.Equipment, game.EquipHealFlat)
	if ch != nil {
		total += ch.HealingBonus(s, card)
	}
	return PenalizeHealing(total, s)
}

// PenalizeShield applies the difficulty shield penalty to amount.
func PenalizeShield(amount int, s *State) int {
	return applyPenalty(amount, game.SumDifficulty(s.Difficulty, game.DifficultyShieldPenaltyPercent))
}

// PenalizeHealing applies the difficulty healing penalty to amount.
func PenalizeHealing(amount int, s *State) int {
	return applyPenalty(amount, game.SumDifficulty(s.Difficulty, game.DifficultyHealingPenaltyPercent))
}

func applyPenalty(amount, pct int) int {
	pct = min(max(pct, 0), 100)
	return max(amount*(100-pct)/100, 0)
}

// CalculateBonusEnergy sums equipment energy and difficulty reductions.
// The result may be negative.
func CalculateBonusEnergy(s *State) int {
	return game.SumEquipment(s.Equipment, game.EquipEnergyFlat) - game.SumDifficulty(s.Difficulty, game.DifficultyEnergyReduction)
}

// EffectiveMaxEnergy is the per-turn energy pool, never below 1.
func EffectiveMaxEnergy(base, bonus int) int {
	return max(1, base+bonus)
}

// IsLastPlayable reports whether no other hand card would still be
// affordable after card is paid for.
func IsLastPlayable(card game.CardInstance, s *State, ch Character) bool {
	remaining := s.Player.Energy
	if s.Deck.HandIndexOf(card.InstanceID) >= 0 {
		remaining -= CalculateCost(card, s, ch)
	}
	for _, other := range s.Deck.Hand {
		if other.InstanceID == card.InstanceID {
			continue
		}
		if CalculateCost(other, s, ch) <= remaining {
			return false
		}
	}
	return true
}

func otherCardsInHand(card game.CardInstance, s *State) int {
	n := len(s.Deck.Hand)
	if s.Deck.HandIndexOf(card.InstanceID) >= 0 {
		n--
	}
	return n
}

// CardPreview is the projected outcome of playing a hand card now.
type CardPreview struct {
	InstanceID string `json:"instance_id"`
	Cost       int    `json:"cost"`
	Damage     int    `json:"damage"`
	Shield     int    `json:"shield"`
	Healing    int    `json:"healing"`
	Playable   bool   `json:"playable"`
}

// previewHand projects each hand card against the state it would resolve
// in: paid for, out of the hand, with the one-shot discounts spent.
func previewHand(s *State, ch Character) []CardPreview {
	out := make([]CardPreview, 0, len(s.Deck.Hand))
	for i, c := range s.Deck.Hand {
		cost := CalculateCost(c, s, ch)
		paid := afterPayment(s, i, cost)
		out = append(out, CardPreview{
			InstanceID: c.InstanceID,
			Cost:       cost,
			Damage:     CalculateDamage(c, &paid, ch).Total,
			Shield:     CalculateShield(c, &paid, ch),
			Healing:    CalculateHealing(c, &paid, ch),
			Playable:   s.Phase == game.PhasePlayerTurn && cost <= s.Player.Energy,
		})
	}
	return out
}

// afterPayment returns a copy of s as it is once the hand card at idx has
// been paid for. Only the hand and discard slices are copied; s is not
// modified.
func afterPayment(s *State, idx, cost int) State {
	paid := *s
	hand := make([]game.CardInstance, 0, len(s.Deck.Hand)-1)
	hand = append(hand, s.Deck.Hand[:idx]...)
	paid.Deck.Hand = append(hand, s.Deck.Hand[idx+1:]...)
	spent := s.Deck.Hand[idx]
	spent.ChargeStacks, spent.Discount = 0, 0
	paid.Deck.DiscardPile = append(append([]game.CardInstance(nil), s.Deck.DiscardPile...), spent)
	paid.Player.Energy -= cost
	paid.Player.NextCardDiscount = 0
	paid.CompanionDiscount = 0
	paid.CardsPlayedThisTurn++
	paid.Player.ActionsThisTurn++
	return paid
}
