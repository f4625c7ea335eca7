package game

import "time"

// Phase is the battle state machine position.
type Phase string

const (
	PhasePlayerTurn    Phase = "player_turn"
	PhaseAdversaryTurn Phase = "adversary_turn"
	PhaseVictory       Phase = "victory"
	PhaseDefeat        Phase = "defeat"
	PhaseAbandoned     Phase = "abandoned"
)

// Terminal reports whether no further commands are accepted in p.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseAbandoned
}

// StatusStacks are the stackable damage-over-time and debuff counters
// shared by the player and the adversary.
type StatusStacks struct {
	Burn     int `json:"burn"`
	Poison   int `json:"poison"`
	Weakness int `json:"weakness"`
}

// Combatant is the player side of a battle.
type Combatant struct {
	Health    int          `json:"health"`
	MaxHealth int          `json:"max_health"`
	Shield    int          `json:"shield"`
	Energy    int          `json:"energy"`
	MaxEnergy int          `json:"max_energy"`
	Status    StatusStacks `json:"status"`
	// ReflectPercent of incoming attack damage is dealt back to the adversary.
	ReflectPercent  int `json:"reflect_percent"`
	ActionsThisTurn int `json:"actions_this_turn"`

	// Single-turn buffs, cleared when the turn ends.
	NextAttackBonus        int `json:"next_attack_bonus"`
	NextAttackBonusPercent int `json:"next_attack_bonus_percent"`
	NextCardDiscount       int `json:"next_card_discount"`
}

// AdversaryTier drives encounter selection.
type AdversaryTier string

const (
	TierRegular AdversaryTier = "regular"
	TierElite   AdversaryTier = "elite"
	TierBoss    AdversaryTier = "boss"
)

// AffixEffect is a fixed per-adversary modifier.
type AffixEffect string

const (
	// AffixEnraged raises attacks by Magnitude percent.
	AffixEnraged AffixEffect = "enraged"
	// AffixBrutal adds Magnitude flat attack damage.
	AffixBrutal AffixEffect = "brutal"
	// AffixRegenerating heals Magnitude at the end of each adversary turn.
	AffixRegenerating AffixEffect = "regenerating"
	// AffixHardened gains Magnitude shield at the end of each adversary turn.
	AffixHardened AffixEffect = "hardened"
	// AffixThorny deals Magnitude damage to the player per damage card played.
	AffixThorny AffixEffect = "thorny"
	// AffixCursed adds a curse card to the draw pile when its attack wounds.
	AffixCursed AffixEffect = "cursed"
)

type Affix struct {
	Name      string      `json:"name" yaml:"name"`
	Effect    AffixEffect `json:"effect" yaml:"effect"`
	Magnitude int         `json:"magnitude" yaml:"magnitude"`
}

// AbilityKind selects how the scheduler evaluates a special ability.
type AbilityKind string

const (
	AbilityPeriodic  AbilityKind = "periodic"
	AbilityPassive   AbilityKind = "passive"
	AbilityThreshold AbilityKind = "threshold"
	AbilityDeath     AbilityKind = "death"
)

// AbilityEffect is what an ability does once it fires.
type AbilityEffect string

const (
	EffectShieldWall   AbilityEffect = "shield_wall"
	EffectHeavyStrike  AbilityEffect = "heavy_strike"
	EffectIgnite       AbilityEffect = "ignite"
	EffectEnfeeble     AbilityEffect = "enfeeble"
	EffectCleanse      AbilityEffect = "cleanse"
	EffectUnstunnable  AbilityEffect = "unstunnable"
	EffectPoisonFeeder AbilityEffect = "poison_feeder"
	EffectEnrage       AbilityEffect = "enrage"
	EffectDeathVenom   AbilityEffect = "death_venom"
	EffectDeathBurst   AbilityEffect = "death_burst"
)

// SpecialAbility is an adversary ability together with its scheduler
// bookkeeping. Counter, Fired and LastFiredTurn are mutated during battle.
type SpecialAbility struct {
	Name      string        `json:"name" yaml:"name"`
	Kind      AbilityKind   `json:"kind" yaml:"kind"`
	Effect    AbilityEffect `json:"effect" yaml:"effect"`
	Magnitude int           `json:"magnitude" yaml:"magnitude"`
	// Period is the number of adversary turns between periodic firings.
	Period int `json:"period,omitempty" yaml:"period"`
	// ThresholdPercent is the health percentage at or below which a
	// threshold ability fires.
	ThresholdPercent int `json:"threshold_percent,omitempty" yaml:"threshold_percent"`

	Counter       int  `json:"counter" yaml:"-"`
	Fired         bool `json:"fired" yaml:"-"`
	LastFiredTurn int  `json:"last_fired_turn" yaml:"-"`
}

// Adversary is the computer-controlled opponent of a battle.
type Adversary struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	Tier      AdversaryTier `json:"tier"`
	Health    int           `json:"health"`
	MaxHealth int           `json:"max_health"`
	Shield    int           `json:"shield"`
	AttackMin int           `json:"attack_min"`
	AttackMax int           `json:"attack_max"`
	// NextAttack is the rolled damage of the upcoming attack, shown as intent.
	NextAttack int `json:"next_attack"`
	// AttackBonus accumulates from enrage-style abilities.
	AttackBonus int `json:"attack_bonus"`

	Stunned             bool         `json:"stunned"`
	Vulnerable          bool         `json:"vulnerable"`
	VulnerableUntilTurn int          `json:"vulnerable_until_turn"`
	Confusion           int          `json:"confusion"`
	Status              StatusStacks `json:"status"`

	Affixes   []Affix          `json:"affixes"`
	Abilities []SpecialAbility `json:"abilities"`

	// HeavyStrikePending doubles the attack of the current adversary turn.
	HeavyStrikePending bool `json:"heavy_strike_pending"`
}

// AffixMagnitude sums the magnitudes of all affixes with the given effect.
func (a *Adversary) AffixMagnitude(effect AffixEffect) int {
	total := 0
	for _, af := range a.Affixes {
		if af.Effect == effect {
			total += af.Magnitude
		}
	}
	return total
}

// HasAffix reports whether any affix has the given effect.
func (a *Adversary) HasAffix(effect AffixEffect) bool {
	for _, af := range a.Affixes {
		if af.Effect == effect {
			return true
		}
	}
	return false
}

// LogCategory groups battle log entries for display.
type LogCategory string

const (
	LogSystem    LogCategory = "system"
	LogPlayer    LogCategory = "player"
	LogAdversary LogCategory = "adversary"
	LogStatus    LogCategory = "status"
	LogAbility   LogCategory = "ability"
	LogCompanion LogCategory = "companion"
	LogCharacter LogCategory = "character"
	LogRejected  LogCategory = "rejected"
)

// LogEntry is one line of the append-only battle log.
type LogEntry struct {
	Message   string      `json:"message"`
	Category  LogCategory `json:"category"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventType names a battle event that capability handlers may react to.
type EventType string

const (
	EventTurnStart               EventType = "turn_start"
	EventTurnEnd                 EventType = "turn_end"
	EventCardPlayed              EventType = "card_played"
	EventDamageCardPlayed        EventType = "damage_card_played"
	EventDamageDealt             EventType = "damage_dealt"
	EventDamageTaken             EventType = "damage_taken"
	EventShieldGained            EventType = "shield_gained"
	EventPlayerHealed            EventType = "player_healed"
	EventCardDrawn               EventType = "card_drawn"
	EventCardDiscarded           EventType = "card_discarded"
	EventBurnApplied             EventType = "burn_applied"
	EventPoisonApplied           EventType = "poison_applied"
	EventAdversaryAttackResolved EventType = "adversary_attack_resolved"
)
