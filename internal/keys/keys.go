package keys

import (
	"strconv"
	"strings"
)

// TriggerLock is the canonical key of a once-per-turn trigger lock for an
// entity reacting to an event, e.g. "companion:owl|card_drawn|3".
func TriggerLock(entity, event string, turn int) string {
	return normalize(entity) + "|" + normalize(event) + "|" + strconv.Itoa(turn)
}

// Catalog is the cache and deduplication key of one adversary tier.
func Catalog(tier string) string {
	return "catalog:" + normalize(tier)
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}
