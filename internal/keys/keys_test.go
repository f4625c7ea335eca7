package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerLock(t *testing.T) {
	assert.Equal(t, "companion:owl|card_drawn|3", TriggerLock("companion:Owl", "card_drawn", 3))
	assert.NotEqual(t, TriggerLock("a", "turn_start", 1), TriggerLock("a", "turn_start", 2))
}

func TestCatalog(t *testing.T) {
	assert.Equal(t, "catalog:elite", Catalog(" Elite "))
}
