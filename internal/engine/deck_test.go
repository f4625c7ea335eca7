package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/chimera-descent/internal/game"
)

func TestDraw_ReshufflesDiscardWhenDrawPileEmpty(t *testing.T) {
	b := newBattle(t, func(s *Setup) { s.Deck = repeat(strike(1, 1), 6) })
	require.NoError(t, play(t, b, 0))
	require.NoError(t, play(t, b, 0))
	require.NoError(t, play(t, b, 0))
	require.Len(t, b.s.Deck.DrawPile, 1)
	require.Len(t, b.s.Deck.DiscardPile, 3)

	endTurn(t, b)

	d := b.State().Deck
	assert.Len(t, d.Hand, 4)
	assert.Len(t, d.DrawPile, 2)
	assert.Empty(t, d.DiscardPile)
	assert.Equal(t, 6, d.Size())
}

func TestDraw_BothPilesEmptyIsNoop(t *testing.T) {
	b := newBattle(t, func(s *Setup) { s.Deck = repeat(strike(1, 1), 5) })
	require.Empty(t, b.s.Deck.DrawPile)

	assert.Zero(t, b.drawCards(2))
	assert.Len(t, b.s.Deck.Hand, 5)
}

func TestDraw_StopsAtMaxHandSize(t *testing.T) {
	b := newBattle(t, func(s *Setup) { s.Deck = repeat(strike(1, 1), 15) })

	assert.Equal(t, MaxHandSize-5, b.drawCards(20))
	assert.Len(t, b.s.Deck.Hand, MaxHandSize)
	assert.Equal(t, 15, b.s.Deck.Size())
}

func TestCharge_AccruesInHandAndResetsWhenPlayed(t *testing.T) {
	charged := game.Card{ID: "wind_up", Name: "Wind Up", Category: game.CategoryDamage, Value: 3, Cost: 1, ChargeRate: 2}
	b := newBattle(t, func(s *Setup) { s.Deck = append([]game.Card{charged}, repeat(strike(1, 1), 7)...) })

	endTurn(t, b)
	endTurn(t, b)
	require.Equal(t, 4, b.s.Deck.Hand[0].ChargeStacks)

	require.NoError(t, play(t, b, 0))

	assert.Equal(t, 40-7, b.State().Adversary.Health)
	discard := b.State().Deck.DiscardPile
	assert.Zero(t, discard[len(discard)-1].ChargeStacks)
}

func TestDiscard_ResetsChargeAndEmitsEvents(t *testing.T) {
	b := newBattle(t, nil)
	b.s.Deck.Hand[4].ChargeStacks = 3

	b.discardCards(2)

	require.Len(t, b.s.Deck.DiscardPile, 2)
	assert.Zero(t, b.s.Deck.DiscardPile[0].ChargeStacks)
	assert.Len(t, b.s.Deck.Hand, 3)
}

func TestPrimeHand_DiscountsOneInstanceUntilPlayed(t *testing.T) {
	prep := game.Card{ID: "prep", Name: "Preparation", Category: game.CategoryShield, Value: 2, Cost: 1, PrimeHand: 1}
	b := newBattle(t, func(s *Setup) {
		s.Deck = append([]game.Card{prep}, repeat(strike(8, 1), 7)...)
	})
	require.Equal(t, "prep", b.State().Deck.Hand[0].Card.ID)

	require.NoError(t, play(t, b, 0))
	st := b.State()
	require.Equal(t, 2, st.Player.Energy)
	primed := st.Deck.Hand[0]
	assert.Equal(t, 1, primed.Discount)
	assert.Zero(t, st.Deck.Hand[1].Discount)
	preview := b.View().HandPreview
	assert.Equal(t, 0, preview[0].Cost)
	assert.Equal(t, 1, preview[1].Cost)

	require.NoError(t, play(t, b, 0))
	st = b.State()
	assert.Equal(t, 2, st.Player.Energy)
	for _, c := range st.Deck.DiscardPile {
		assert.Zero(t, c.Discount, c.InstanceID)
	}

	require.NoError(t, play(t, b, 0))
	assert.Equal(t, 1, b.State().Player.Energy)
}
