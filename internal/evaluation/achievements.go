package evaluation

import (
	"context"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
)

// Award kinds.
const (
	KindAchievement = "achievement"
	KindQuest       = "quest"
	KindTitle       = "title"
)

type Award struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

// Awards lists what o earns. Only victories earn anything.
func Awards(o Outcome) []Award {
	if o.Result != game.PhaseVictory {
		return nil
	}
	var out []Award
	if o.VictoryCount == 1 {
		out = append(out, Award{KindAchievement, "first_blood"})
	}
	if o.MaxHealth > 0 && o.Health == o.MaxHealth {
		out = append(out, Award{KindAchievement, "untouched"})
	}
	if o.Turns > 0 && o.Turns <= 3 {
		out = append(out, Award{KindAchievement, "swift_victory"})
	}
	switch o.AdversaryTier {
	case game.TierElite:
		out = append(out, Award{KindQuest, "elite_hunter"})
	case game.TierBoss:
		out = append(out, Award{KindQuest, "boss_slayer"})
		out = append(out, Award{KindTitle, string(o.Character) + "_champion"})
	}
	if o.VictoryCount > 0 && o.VictoryCount%10 == 0 {
		out = append(out, Award{KindTitle, "veteran"})
	}
	return out
}

// AwardLogger reports awards in the service log. It is the default sink
// when no webhook is configured.
type AwardLogger struct{}

func (AwardLogger) Name() string { return "awards" }

func (AwardLogger) Evaluate(_ context.Context, o Outcome) error {
	for _, a := range Awards(o) {
		logging.Info("award earned", logging.Fields{
			constants.LogFieldBattleID: o.BattleID,
			constants.LogFieldPlayer:   o.PlayerName,
			"kind":                     a.Kind,
			constants.LogFieldKey:      a.Key,
		})
	}
	return nil
}
