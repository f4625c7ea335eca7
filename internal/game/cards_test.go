package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type holder struct{ deck Deck }

func (h holder) snapshot() holder { return h }

func TestDeck_ReadersOnReturnedValue(t *testing.T) {
	h := holder{deck: Deck{
		Hand:        []CardInstance{{InstanceID: "a"}},
		DrawPile:    []CardInstance{{InstanceID: "b"}, {InstanceID: "c"}},
		DiscardPile: []CardInstance{{InstanceID: "d"}},
	}}

	assert.Equal(t, 4, h.snapshot().deck.Size())
	assert.Len(t, h.snapshot().deck.All(), 4)
	assert.Equal(t, "a", h.snapshot().deck.All()[0].InstanceID)
	assert.Equal(t, 0, h.snapshot().deck.HandIndexOf("a"))
	assert.Equal(t, -1, h.snapshot().deck.HandIndexOf("d"))
}

func TestDeck_AddRemoveKeepUnion(t *testing.T) {
	var d Deck
	d.Add(CardInstance{InstanceID: "x"})
	d.Add(CardInstance{InstanceID: "y"})
	assert.Equal(t, 2, d.Size())
	assert.True(t, d.Remove("x"))
	assert.False(t, d.Remove("x"))
	assert.Equal(t, 1, d.Size())
}
