package service

import (
	"context"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/evaluation"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
)

// conclude folds the result into the run, saves it and dispatches the
// post-battle evaluators. It runs once per session. A failed save is
// logged and kept as pending; the caller still gets the local result.
func (s *Service) conclude(ctx context.Context, sess *session) {
	sess.concludeOnce.Do(func() {
		res, ok := sess.battle.Result()
		if !ok {
			return
		}
		sess.cancel()
		run := mergeResult(sess.run, res)

		fields := logging.Fields{
			constants.LogFieldRunID:    run.RunID,
			constants.LogFieldBattleID: res.BattleID,
			constants.LogFieldOutcome:  res.Outcome,
			constants.LogFieldTurn:     res.Turns,
		}
		if err := s.saveRun(ctx, &run); err != nil {
			logging.Error("failed to save run after battle", err, fields)
			s.mu.Lock()
			s.pending[run.RunID] = run
			s.mu.Unlock()
		} else {
			s.mu.Lock()
			delete(s.pending, run.RunID)
			s.mu.Unlock()
		}

		s.mu.Lock()
		sess.final = &run
		if s.byRun[run.RunID] == res.BattleID {
			delete(s.byRun, run.RunID)
		}
		s.mu.Unlock()
		logging.Info("battle concluded", fields)

		if s.evals != nil {
			s.evals.Dispatch(evaluation.Outcome{
				BattleID:      res.BattleID,
				RunID:         run.RunID,
				PlayerName:    run.PlayerName,
				Character:     run.Character.ID,
				Result:        res.Outcome,
				Turns:         res.Turns,
				Health:        res.Health,
				MaxHealth:     res.MaxHealth,
				AdversaryKey:  res.AdversaryKey,
				AdversaryTier: res.AdversaryTier,
				VictoryCount:  run.VictoryCount,
				At:            s.now(),
			})
		}
	})
}

// mergeResult carries health, deck, character counters, lingering venom
// and the combo marker into the run. A victory advances the run; defeat and abandonment
// end it.
func mergeResult(run game.RunSnapshot, res engine.Result) game.RunSnapshot {
	run.Health = res.Health
	run.MaxHealth = res.MaxHealth
	run.Character = res.Character
	run.Deck = res.Deck
	run.LastCardType = res.LastCardType
	run.LastOutcome = res.Outcome
	run.Poison = res.Poison
	switch res.Outcome {
	case game.PhaseVictory:
		run.VictoryCount++
		run.BattleIndex++
	case game.PhaseDefeat:
		run.Health = 0
		run.Poison = 0
		run.Status = game.RunDead
	case game.PhaseAbandoned:
		run.Poison = 0
		run.Status = game.RunDead
	}
	return run
}
