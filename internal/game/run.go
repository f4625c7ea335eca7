package game

import (
	"time"

	"gorm.io/gorm"
)

// RunStatus tracks whether a run can still start battles.
type RunStatus string

const (
	RunActive RunStatus = "active"
	RunDead   RunStatus = "dead"
)

// RunSnapshot is the persisted state of a run between battles. Nested
// values are stored as JSON columns.
type RunSnapshot struct {
	gorm.Model
	RunID        string               `json:"run_id" gorm:"uniqueIndex"`
	PlayerName   string               `json:"player_name" gorm:"index"`
	Character    CharacterState       `json:"character" gorm:"serializer:json"`
	Deck         []Card               `json:"deck" gorm:"serializer:json"`
	Equipment    []Equipment          `json:"equipment" gorm:"serializer:json"`
	Companions   []Companion          `json:"companions" gorm:"serializer:json"`
	Difficulty   []DifficultyModifier `json:"difficulty" gorm:"serializer:json"`
	Health       int                  `json:"health"`
	MaxHealth    int                  `json:"max_health"`
	VictoryCount int                  `json:"victory_count"`
	// BattleIndex is the zero-based position of the next battle.
	BattleIndex  int          `json:"battle_index"`
	LastCardType CardCategory `json:"last_card_type"`
	Status       RunStatus    `json:"status"`
	LastOutcome  Phase        `json:"last_outcome"`
	// Poison is lingering venom applied at the start of the next battle.
	Poison int `json:"poison"`
}

// AdversaryTemplate is a catalog entry from which battle adversaries are
// spawned.
type AdversaryTemplate struct {
	gorm.Model `json:"-" yaml:"-"`
	Key        string           `json:"key" yaml:"key" gorm:"uniqueIndex"`
	Name       string           `json:"name" yaml:"name"`
	Tier       AdversaryTier    `json:"tier" yaml:"tier" gorm:"index"`
	MaxHealth  int              `json:"max_health" yaml:"max_health"`
	Shield     int              `json:"shield" yaml:"shield"`
	AttackMin  int              `json:"attack_min" yaml:"attack_min"`
	AttackMax  int              `json:"attack_max" yaml:"attack_max"`
	Affixes    []Affix          `json:"affixes" yaml:"affixes" gorm:"serializer:json"`
	Abilities  []SpecialAbility `json:"abilities" yaml:"abilities" gorm:"serializer:json"`
}

// TableName keeps catalog rows in `adversary_templates`.
func (AdversaryTemplate) TableName() string { return "adversary_templates" }

// Spawn returns a fresh adversary at full health. Ability bookkeeping
// starts from zero.
func (t AdversaryTemplate) Spawn() Adversary {
	abilities := make([]SpecialAbility, len(t.Abilities))
	for i, a := range t.Abilities {
		a.Counter, a.Fired, a.LastFiredTurn = 0, false, 0
		abilities[i] = a
	}
	affixes := append([]Affix(nil), t.Affixes...)
	return Adversary{
		Key:       t.Key,
		Name:      t.Name,
		Tier:      t.Tier,
		Health:    t.MaxHealth,
		MaxHealth: t.MaxHealth,
		Shield:    t.Shield,
		AttackMin: t.AttackMin,
		AttackMax: t.AttackMax,
		Affixes:   affixes,
		Abilities: abilities,
	}
}

// ScriptedEncounter pins a specific adversary to a battle index.
type ScriptedEncounter struct {
	gorm.Model   `json:"-" yaml:"-"`
	BattleIndex  int    `json:"battle_index" yaml:"battle_index" gorm:"uniqueIndex"`
	AdversaryKey string `json:"adversary_key" yaml:"adversary_key"`
}

// PlayerProfile aggregates battle outcomes per player name.
type PlayerProfile struct {
	gorm.Model
	PlayerName    string    `json:"player_name" gorm:"uniqueIndex"`
	BattlesPlayed int       `json:"battles_played"`
	Victories     int       `json:"victories"`
	Defeats       int       `json:"defeats"`
	Abandons      int       `json:"abandons"`
	LastPlayedAt  time.Time `json:"last_played_at"`
}
