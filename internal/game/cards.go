package game

// CardCategory selects the primary resolution path of a card.
type CardCategory string

const (
	CategoryDamage CardCategory = "damage"
	CategoryShield CardCategory = "shield"
	CategoryHeal   CardCategory = "heal"
	CategoryDraw   CardCategory = "draw"
)

// Valid reports whether c is one of the four known categories.
func (c CardCategory) Valid() bool {
	switch c {
	case CategoryDamage, CategoryShield, CategoryHeal, CategoryDraw:
		return true
	}
	return false
}

// KnowledgeTarget names the value a knowledge card scales with hand size.
type KnowledgeTarget string

const (
	KnowledgeNone   KnowledgeTarget = ""
	KnowledgeDamage KnowledgeTarget = "damage"
	KnowledgeShield KnowledgeTarget = "shield"
)

// Card is an immutable card template. Templates are loaded from the
// configuration file and copied into every CardInstance built from them.
type Card struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Category CardCategory `json:"category" yaml:"category"`
	// Value is the primary magnitude: damage, shield, heal or cards drawn
	// depending on Category.
	Value int `json:"value" yaml:"value"`
	Cost  int `json:"cost" yaml:"cost"`

	// Secondary effects resolved after the primary one.
	SecondaryDamage int `json:"secondary_damage,omitempty" yaml:"secondary_damage"`
	SecondaryShield int `json:"secondary_shield,omitempty" yaml:"secondary_shield"`
	SecondaryHeal   int `json:"secondary_heal,omitempty" yaml:"secondary_heal"`
	EnergyRefund    int `json:"energy_refund,omitempty" yaml:"energy_refund"`
	DrawCount       int `json:"draw_count,omitempty" yaml:"draw_count"`
	DiscardCount    int `json:"discard_count,omitempty" yaml:"discard_count"`
	SelfDamage      int `json:"self_damage,omitempty" yaml:"self_damage"`

	// Status application against the adversary.
	ApplyBurn       int  `json:"apply_burn,omitempty" yaml:"apply_burn"`
	ApplyPoison     int  `json:"apply_poison,omitempty" yaml:"apply_poison"`
	ApplyWeakness   int  `json:"apply_weakness,omitempty" yaml:"apply_weakness"`
	ApplyConfusion  int  `json:"apply_confusion,omitempty" yaml:"apply_confusion"`
	ApplyStun       bool `json:"apply_stun,omitempty" yaml:"apply_stun"`
	VulnerableTurns int  `json:"vulnerable_turns,omitempty" yaml:"vulnerable_turns"`

	// Buffs granted to the player for the rest of the turn.
	NextAttackBonus        int `json:"next_attack_bonus,omitempty" yaml:"next_attack_bonus"`
	NextAttackBonusPercent int `json:"next_attack_bonus_percent,omitempty" yaml:"next_attack_bonus_percent"`
	NextCardDiscount       int `json:"next_card_discount,omitempty" yaml:"next_card_discount"`
	// PrimeHand gives the leftmost card left in hand a one-shot discount
	// that stays on that instance until it is played or discarded.
	PrimeHand int `json:"prime_hand,omitempty" yaml:"prime_hand"`

	// Combo: bonus damage when the previously played card had this category.
	ComboAffinity CardCategory `json:"combo_affinity,omitempty" yaml:"combo_affinity"`
	ComboBonus    int          `json:"combo_bonus,omitempty" yaml:"combo_bonus"`
	// Charge: stacks gained each turn the card stays in hand unplayed.
	ChargeRate int `json:"charge_rate,omitempty" yaml:"charge_rate"`
	// Knowledge: bonus per other card held in hand.
	Knowledge     KnowledgeTarget `json:"knowledge,omitempty" yaml:"knowledge"`
	KnowledgeRate int             `json:"knowledge_rate,omitempty" yaml:"knowledge_rate"`
	// Surge doubles base damage when this is the last playable card.
	Surge bool `json:"surge,omitempty" yaml:"surge"`
	// Curse marks cards added by cursed adversaries. They are stripped
	// from the deck after a victory.
	Curse bool `json:"curse,omitempty" yaml:"curse"`
}

// CardInstance is one concrete copy of a card inside a battle deck.
// Charge stacks and one-shot discounts belong to the instance, not the
// template.
type CardInstance struct {
	InstanceID   string `json:"instance_id"`
	Card         Card   `json:"card"`
	ChargeStacks int    `json:"charge_stacks"`
	Discount     int    `json:"discount"`
}

// Deck holds the three card zones of a battle. Every instance lives in
// exactly one zone at a time.
type Deck struct {
	Hand        []CardInstance `json:"hand"`
	DrawPile    []CardInstance `json:"draw_pile"`
	DiscardPile []CardInstance `json:"discard_pile"`
}

// Size is the number of instances across all zones.
func (d Deck) Size() int {
	return len(d.Hand) + len(d.DrawPile) + len(d.DiscardPile)
}

// All returns a copy of every instance, hand first.
func (d Deck) All() []CardInstance {
	out := make([]CardInstance, 0, d.Size())
	out = append(out, d.Hand...)
	out = append(out, d.DrawPile...)
	out = append(out, d.DiscardPile...)
	return out
}

// Add places an instance at the bottom of the draw pile.
func (d *Deck) Add(c CardInstance) {
	d.DrawPile = append(d.DrawPile, c)
}

// Remove deletes the instance with the given id from whichever zone holds
// it and reports whether it was found.
func (d *Deck) Remove(instanceID string) bool {
	for _, zone := range []*[]CardInstance{&d.Hand, &d.DrawPile, &d.DiscardPile} {
		for i := range *zone {
			if (*zone)[i].InstanceID == instanceID {
				*zone = append((*zone)[:i], (*zone)[i+1:]...)
				return true
			}
		}
	}
	return false
}

// HandIndexOf returns the hand position of an instance or -1.
func (d Deck) HandIndexOf(instanceID string) int {
	for i := range d.Hand {
		if d.Hand[i].InstanceID == instanceID {
			return i
		}
	}
	return -1
}
