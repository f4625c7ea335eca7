package game

import (
	"errors"
	"fmt"
)

// CharacterID identifies a playable character class.
type CharacterID string

const (
	Warrior    CharacterID = "warrior"
	Pyromancer CharacterID = "pyromancer"
	Venomancer CharacterID = "venomancer"
	Scholar    CharacterID = "scholar"
	Guardian   CharacterID = "guardian"
)

// TalentID names a talent choice. The empty string means the tier is not
// unlocked yet.
type TalentID string

// TalentTiers is the number of talent tiers every character has.
const TalentTiers = 4

// Talents holds the chosen talent per tier.
type Talents [TalentTiers]TalentID

// Has reports whether t was chosen in any tier.
func (ts Talents) Has(t TalentID) bool {
	for _, x := range ts {
		if x == t && t != "" {
			return true
		}
	}
	return false
}

var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrInvalidTalent    = errors.New("invalid talent selection")
	ErrCharacterState   = errors.New("character state does not match character id")
)

// talentTree lists the two options of every tier per character.
var talentTree = map[CharacterID][TalentTiers][2]TalentID{
	Warrior: {
		{"iron_skin", "battle_cry"},
		{"bloodlust", "thick_hide"},
		{"rampage", "berserker"},
		{"executioner", "second_wind"},
	},
	Pyromancer: {
		{"kindling", "flame_ward"},
		{"ember_heart", "combustion"},
		{"wildfire", "smoulder"},
		{"rebirth", "firestorm"},
	},
	Venomancer: {
		{"toxic_blades", "antivenom"},
		{"toxic_mastery", "corrosion"},
		{"plague_lord", "miasma"},
		{"undying_venom", "virulence"},
	},
	Scholar: {
		{"deep_study", "focus"},
		{"arcane_discount", "mind_blade"},
		{"insight", "recall"},
		{"undying_lore", "epiphany"},
	},
	Guardian: {
		{"bulwark", "thorns"},
		{"retaliation", "fortify"},
		{"aegis", "stalwart"},
		{"last_stand", "vengeance"},
	},
}

// TalentOptions returns the two options of a tier.
func TalentOptions(id CharacterID, tier int) ([2]TalentID, bool) {
	tree, ok := talentTree[id]
	if !ok || tier < 0 || tier >= TalentTiers {
		return [2]TalentID{}, false
	}
	return tree[tier], true
}

// ValidateTalents checks that every non-empty selection belongs to its
// tier and that tiers are unlocked in order.
func ValidateTalents(id CharacterID, ts Talents) error {
	tree, ok := talentTree[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	gap := false
	for tier, choice := range ts {
		if choice == "" {
			gap = true
			continue
		}
		if gap {
			return fmt.Errorf("%w: tier %d chosen before tier %d", ErrInvalidTalent, tier+1, tier)
		}
		if choice != tree[tier][0] && choice != tree[tier][1] {
			return fmt.Errorf("%w: %q is not a tier %d option for %s", ErrInvalidTalent, choice, tier+1, id)
		}
	}
	return nil
}

type WarriorState struct {
	// Rage builds from damage taken; half of it carries into the next battle.
	Rage int `json:"rage"`
}

type PyromancerState struct {
	// Embers counts burn stacks applied; every ten add one damage against
	// a burning adversary, up to three.
	Embers int `json:"embers"`
}

type VenomancerState struct {
	// Toxins counts poison stacks applied over the whole run.
	Toxins int `json:"toxins"`
}

type ScholarState struct {
	// Insight grows with every card drawn and sharpens knowledge cards.
	Insight int `json:"insight"`
}

type GuardianState struct {
	// Bulwark accumulates shield gained; part of it is granted at battle start.
	Bulwark int `json:"bulwark"`
}

// CharacterState is the persistent per-character state. Exactly one of
// the variant pointers is set and it matches ID.
type CharacterState struct {
	ID         CharacterID      `json:"id"`
	Talents    Talents          `json:"talents"`
	Warrior    *WarriorState    `json:"warrior,omitempty"`
	Pyromancer *PyromancerState `json:"pyromancer,omitempty"`
	Venomancer *VenomancerState `json:"venomancer,omitempty"`
	Scholar    *ScholarState    `json:"scholar,omitempty"`
	Guardian   *GuardianState   `json:"guardian,omitempty"`
}

// NewCharacterState builds a fresh state for id with validated talents.
func NewCharacterState(id CharacterID, ts Talents) (CharacterState, error) {
	if err := ValidateTalents(id, ts); err != nil {
		return CharacterState{}, err
	}
	s := CharacterState{ID: id, Talents: ts}
	switch id {
	case Warrior:
		s.Warrior = &WarriorState{}
	case Pyromancer:
		s.Pyromancer = &PyromancerState{}
	case Venomancer:
		s.Venomancer = &VenomancerState{}
	case Scholar:
		s.Scholar = &ScholarState{}
	case Guardian:
		s.Guardian = &GuardianState{}
	}
	return s, nil
}

// Validate reports an error when the populated variant does not match ID.
func (s CharacterState) Validate() error {
	set := 0
	var got CharacterID
	if s.Warrior != nil {
		set++
		got = Warrior
	}
	if s.Pyromancer != nil {
		set++
		got = Pyromancer
	}
	if s.Venomancer != nil {
		set++
		got = Venomancer
	}
	if s.Scholar != nil {
		set++
		got = Scholar
	}
	if s.Guardian != nil {
		set++
		got = Guardian
	}
	if set != 1 || got != s.ID {
		return fmt.Errorf("%w: %s", ErrCharacterState, s.ID)
	}
	return ValidateTalents(s.ID, s.Talents)
}

// Clone returns a deep copy so battles never share variant pointers with
// the run snapshot they started from.
func (s CharacterState) Clone() CharacterState {
	out := s
	if s.Warrior != nil {
		v := *s.Warrior
		out.Warrior = &v
	}
	if s.Pyromancer != nil {
		v := *s.Pyromancer
		out.Pyromancer = &v
	}
	if s.Venomancer != nil {
		v := *s.Venomancer
		out.Venomancer = &v
	}
	if s.Scholar != nil {
		v := *s.Scholar
		out.Scholar = &v
	}
	if s.Guardian != nil {
		v := *s.Guardian
		out.Guardian = &v
	}
	return out
}

// CharacterStats are the configured base numbers of a character class.
type CharacterStats struct {
	ID          CharacterID `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	MaxHealth   int         `json:"max_health" yaml:"max_health"`
	MaxEnergy   int         `json:"max_energy" yaml:"max_energy"`
	BaseDraw    int         `json:"base_draw" yaml:"base_draw"`
	OpeningHand int         `json:"opening_hand" yaml:"opening_hand"`
	StarterDeck []string    `json:"starter_deck" yaml:"starter_deck"`
}
