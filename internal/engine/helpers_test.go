package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericogr/chimera-descent/internal/game"
)

// fakeRand keeps shuffles in order, rolls the maximum attack and returns
// a fixed float for confusion checks.
type fakeRand struct {
	float float64
}

func (f *fakeRand) Intn(n int) int { return n - 1 }

func (f *fakeRand) Float64() float64 { return f.float }

func strike(value, cost int) game.Card {
	return game.Card{ID: "strike", Name: "Strike", Category: game.CategoryDamage, Value: value, Cost: cost}
}

func repeat(c game.Card, n int) []game.Card {
	out := make([]game.Card, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func character(t *testing.T, id game.CharacterID, talents ...game.TalentID) game.CharacterState {
	t.Helper()
	var ts game.Talents
	copy(ts[:], talents)
	s, err := game.NewCharacterState(id, ts)
	require.NoError(t, err)
	return s
}

func baseSetup(t *testing.T) Setup {
	t.Helper()
	return Setup{
		BattleID:  "battle-1",
		RunID:     "run-1",
		Seed:      7,
		Stats:     game.CharacterStats{ID: game.Scholar, MaxHealth: 60, MaxEnergy: 3, BaseDraw: 2, OpeningHand: 5},
		Character: character(t, game.Scholar),
		Health:    60,
		MaxHealth: 60,
		Deck:      repeat(strike(8, 1), 8),
		Adversary: game.Adversary{
			Key: "dummy", Name: "Dummy", Tier: game.TierRegular,
			Health: 40, MaxHealth: 40, AttackMin: 5, AttackMax: 5,
		},
	}
}

func newBattle(t *testing.T, mutate func(*Setup), opts ...Option) *Battle {
	t.Helper()
	setup := baseSetup(t)
	if mutate != nil {
		mutate(&setup)
	}
	all := append([]Option{WithRand(&fakeRand{float: 0.99}), WithPacer(NoPacing{})}, opts...)
	b, err := New(setup, all...)
	require.NoError(t, err)
	return b
}

func play(t *testing.T, b *Battle, idx int) error {
	t.Helper()
	id := ""
	if idx >= 0 && idx < len(b.s.Deck.Hand) {
		id = b.s.Deck.Hand[idx].InstanceID
	}
	return b.PlayCard(context.Background(), id, idx)
}

func endTurn(t *testing.T, b *Battle) {
	t.Helper()
	require.NoError(t, b.EndTurn(context.Background()))
}

func countLog(b *Battle, cat game.LogCategory) int {
	n := 0
	for _, e := range b.Log() {
		if e.Category == cat {
			n++
		}
	}
	return n
}

// gatePacer parks the first pause until release is closed.
type gatePacer struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatePacer() *gatePacer {
	return &gatePacer{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatePacer) Pause(ctx context.Context) error {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
