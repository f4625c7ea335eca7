package game

// EquipmentEffect is the bonus granted by an equipped relic.
type EquipmentEffect string

const (
	EquipDamageFlat        EquipmentEffect = "damage_flat"
	EquipShieldFlat        EquipmentEffect = "shield_flat"
	EquipHealFlat          EquipmentEffect = "heal_flat"
	EquipEnergyFlat        EquipmentEffect = "energy_flat"
	EquipDrawFlat          EquipmentEffect = "draw_flat"
	EquipFirstCardDiscount EquipmentEffect = "first_card_discount"
	EquipRevivePercent     EquipmentEffect = "revive_percent"
	EquipReflectPercent    EquipmentEffect = "reflect_percent"
	EquipStartShield       EquipmentEffect = "start_shield"
	EquipBurnBonus         EquipmentEffect = "burn_bonus"
)

type Equipment struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Effect    EquipmentEffect `json:"effect" yaml:"effect"`
	Magnitude int             `json:"magnitude" yaml:"magnitude"`
}

// CompanionEffect is what a companion does when its trigger fires.
type CompanionEffect string

const (
	CompanionStrike  CompanionEffect = "deal_damage"
	CompanionGuard   CompanionEffect = "gain_shield"
	CompanionMend    CompanionEffect = "heal"
	CompanionSpark   CompanionEffect = "gain_energy"
	CompanionScout   CompanionEffect = "draw"
	CompanionKindle  CompanionEffect = "apply_burn"
	CompanionVenom   CompanionEffect = "apply_poison"
	CompanionBargain CompanionEffect = "discount_next"
)

// Companion is an ally that reacts to one battle event, at most once per
// turn.
type Companion struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Trigger   EventType       `json:"trigger" yaml:"trigger"`
	Effect    CompanionEffect `json:"effect" yaml:"effect"`
	Magnitude int             `json:"magnitude" yaml:"magnitude"`
}

// DifficultyEffect is a run-wide handicap chosen at run creation.
type DifficultyEffect string

const (
	DifficultyAdversaryHealthPercent DifficultyEffect = "adversary_health_percent"
	DifficultyAdversaryAttackPercent DifficultyEffect = "adversary_attack_percent"
	DifficultyEnergyReduction        DifficultyEffect = "player_energy_reduction"
	DifficultyCardCostSurcharge      DifficultyEffect = "card_cost_surcharge"
	DifficultyHealingPenaltyPercent  DifficultyEffect = "healing_penalty_percent"
	DifficultyShieldPenaltyPercent   DifficultyEffect = "shield_penalty_percent"
)

type DifficultyModifier struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Effect    DifficultyEffect `json:"effect" yaml:"effect"`
	Magnitude int              `json:"magnitude" yaml:"magnitude"`
}

// SumEquipment adds the magnitudes of all equipment with the given effect.
func SumEquipment(items []Equipment, effect EquipmentEffect) int {
	total := 0
	for _, e := range items {
		if e.Effect == effect {
			total += e.Magnitude
		}
	}
	return total
}

// SumDifficulty adds the magnitudes of all difficulty modifiers with the
// given effect.
func SumDifficulty(mods []DifficultyModifier, effect DifficultyEffect) int {
	total := 0
	for _, m := range mods {
		if m.Effect == effect {
			total += m.Magnitude
		}
	}
	return total
}
