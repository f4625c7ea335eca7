package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/chimera-descent/internal/game"
)

func TestConfusionSkipChance(t *testing.T) {
	for stacks, want := range map[int]float64{0: 0, 1: 0.5, 2: 0.95, 7: 0.95} {
		assert.InDelta(t, want, ConfusionSkipChance(stacks), 1e-9, "stacks=%d", stacks)
	}
}

func TestPlayerBurn_BypassesShieldAndDecays(t *testing.T) {
	b := newBattle(t, nil)
	b.s.Player.Status.Burn = 3
	b.s.Player.Shield = 10

	b.tickPlayerStatuses()

	assert.Equal(t, 54, b.s.Player.Health)
	assert.Equal(t, 10, b.s.Player.Shield)
	assert.Equal(t, 2, b.s.Player.Status.Burn)
}

func TestPlayerPoison_DoesNotDecay(t *testing.T) {
	b := newBattle(t, nil)
	b.s.Player.Status.Poison = 4
	b.s.Player.Status.Weakness = 2

	b.tickPlayerStatuses()

	assert.Equal(t, 56, b.s.Player.Health)
	assert.Equal(t, 4, b.s.Player.Status.Poison)
	assert.Equal(t, 1, b.s.Player.Status.Weakness)
}

func TestAdversaryStatuses_BurnThenPoisonWithMultiplier(t *testing.T) {
	tests := []struct {
		name    string
		talents []game.TalentID
		want    int
	}{
		{"default multiplier", nil, 40 - 4 - 8},
		{"toxic mastery", []game.TalentID{"toxic_blades", "toxic_mastery"}, 40 - 4 - 12},
		{"plague lord", []game.TalentID{"toxic_blades", "corrosion", "plague_lord"}, 40 - 4 - 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBattle(t, func(s *Setup) {
				s.Character = character(t, game.Venomancer, tt.talents...)
			})
			b.s.Adversary.Shield = 50
			b.s.Adversary.Status.Burn = 2
			b.s.Adversary.Status.Poison = 4

			b.tickAdversaryStatuses()

			assert.Equal(t, tt.want, b.s.Adversary.Health)
			assert.Equal(t, 50, b.s.Adversary.Shield)
			assert.Equal(t, 1, b.s.Adversary.Status.Burn)
			assert.Equal(t, 4, b.s.Adversary.Status.Poison)
		})
	}
}

func TestConfusion_ConsumesOneStackEitherWay(t *testing.T) {
	t.Run("skip", func(t *testing.T) {
		b := newBattle(t, nil, WithRand(&fakeRand{float: 0.4}))
		b.s.Adversary.Confusion = 1

		endTurn(t, b)

		assert.Equal(t, 60, b.State().Player.Health)
		assert.Zero(t, b.State().Adversary.Confusion)
	})
	t.Run("no skip", func(t *testing.T) {
		b := newBattle(t, nil, WithRand(&fakeRand{float: 0.96}))
		b.s.Adversary.Confusion = 2

		endTurn(t, b)

		assert.Equal(t, 55, b.State().Player.Health)
		assert.Equal(t, 1, b.State().Adversary.Confusion)
	})
}

func TestStun_HalvesNextAttackThenClears(t *testing.T) {
	stun := game.Card{ID: "bash", Name: "Bash", Category: game.CategoryDamage, Value: 1, Cost: 1, ApplyStun: true}
	b := newBattle(t, func(s *Setup) {
		s.Deck = append([]game.Card{stun}, repeat(strike(8, 1), 7)...)
		s.Adversary.AttackMin, s.Adversary.AttackMax = 9, 9
	})

	require.NoError(t, play(t, b, 0))
	require.True(t, b.State().Adversary.Stunned)
	endTurn(t, b)

	assert.Equal(t, 56, b.State().Player.Health)
	assert.False(t, b.State().Adversary.Stunned)

	endTurn(t, b)
	assert.Equal(t, 47, b.State().Player.Health)
}

func TestVulnerable_ExpiresAndDoesNotStack(t *testing.T) {
	b := newBattle(t, nil)
	b.applyVulnerable(2, "test")
	b.applyVulnerable(1, "test")
	require.Equal(t, 1, b.s.Adversary.VulnerableUntilTurn)

	dmg := CalculateDamage(b.s.Deck.Hand[0], &b.s, b.handler)
	assert.Equal(t, 12, dmg.Total)

	endTurn(t, b)
	assert.True(t, b.State().Adversary.Vulnerable)
	endTurn(t, b)
	assert.False(t, b.State().Adversary.Vulnerable)
}
