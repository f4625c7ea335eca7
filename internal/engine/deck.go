package engine

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/ericogr/chimera-descent/internal/game"
)

// drawCards draws up to n cards, reshuffling the discard pile into the
// draw pile when needed. It stops at MaxHandSize or when both piles are
// empty.
func (b *Battle) drawCards(n int) int {
	drawn := 0
	for i := 0; i < n && !b.over(); i++ {
		c, ok := b.drawOne()
		if !ok {
			break
		}
		drawn++
		b.emit(Event{Type: game.EventCardDrawn, Card: &c})
	}
	return drawn
}

func (b *Battle) drawOne() (game.CardInstance, bool) {
	d := &b.s.Deck
	if len(d.Hand) >= MaxHandSize {
		return game.CardInstance{}, false
	}
	if len(d.DrawPile) == 0 {
		if len(d.DiscardPile) == 0 {
			return game.CardInstance{}, false
		}
		d.DrawPile, d.DiscardPile = d.DiscardPile, nil
		b.shuffle(d.DrawPile)
		b.logf(game.LogSystem, "Discard pile reshuffled into draw pile ("+strconv.Itoa(len(d.DrawPile))+" cards)")
	}
	c := d.DrawPile[0]
	d.DrawPile = d.DrawPile[1:]
	d.Hand = append(d.Hand, c)
	return c, true
}

// discardCards moves the last n hand cards to the discard pile.
func (b *Battle) discardCards(n int) {
	for i := 0; i < n && !b.over(); i++ {
		d := &b.s.Deck
		if len(d.Hand) == 0 {
			return
		}
		c := d.Hand[len(d.Hand)-1]
		d.Hand = d.Hand[:len(d.Hand)-1]
		c.ChargeStacks = 0
		c.Discount = 0
		d.DiscardPile = append(d.DiscardPile, c)
		b.logf(game.LogPlayer, "Discarded "+c.Card.Name)
		b.emit(Event{Type: game.EventCardDiscarded, Card: &c})
	}
}

// removeFromHand takes the card at idx out of the hand and places it on
// the discard pile with its charge and one-shot discount reset. The
// returned copy keeps the values it was played with.
func (b *Battle) removeFromHand(idx int) game.CardInstance {
	d := &b.s.Deck
	played := d.Hand[idx]
	d.Hand = append(d.Hand[:idx:idx], d.Hand[idx+1:]...)
	spent := played
	spent.ChargeStacks = 0
	spent.Discount = 0
	d.DiscardPile = append(d.DiscardPile, spent)
	return played
}

// primeHand puts a one-shot discount on the leftmost hand card.
func (b *Battle) primeHand(amount int, source string) {
	if amount <= 0 || len(b.s.Deck.Hand) == 0 {
		return
	}
	c := &b.s.Deck.Hand[0]
	c.Discount += amount
	b.logf(game.LogPlayer, source+" primes "+c.Card.Name+" (-"+strconv.Itoa(amount)+" cost)")
}

// accrueCharge grows charge stacks on cards held over a turn boundary.
func (b *Battle) accrueCharge() {
	for i := range b.s.Deck.Hand {
		if rate := b.s.Deck.Hand[i].Card.ChargeRate; rate > 0 {
			b.s.Deck.Hand[i].ChargeStacks += rate
		}
	}
}

// addCurse places a new curse card at the bottom of the draw pile.
func (b *Battle) addCurse(source string) {
	curse := game.CardInstance{
		InstanceID: uuid.NewString(),
		Card: game.Card{
			ID:       "curse",
			Name:     "Curse",
			Category: game.CategoryDraw,
			Cost:     1,
			Curse:    true,
		},
	}
	b.s.Deck.Add(curse)
	b.logf(game.LogAdversary, source+" curses your deck")
}
