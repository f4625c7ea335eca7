// Package evaluation runs post-battle checks (stats, achievements, quests,
// titles) after a battle concludes. Evaluators never affect the outcome;
// failures are logged.
package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
)

// Outcome describes one concluded battle.
type Outcome struct {
	BattleID      string             `json:"battle_id"`
	RunID         string             `json:"run_id"`
	PlayerName    string             `json:"player_name"`
	Character     game.CharacterID   `json:"character"`
	Result        game.Phase         `json:"result"`
	Turns         int                `json:"turns"`
	Health        int                `json:"health"`
	MaxHealth     int                `json:"max_health"`
	AdversaryKey  string             `json:"adversary_key"`
	AdversaryTier game.AdversaryTier `json:"adversary_tier"`
	VictoryCount  int                `json:"victory_count"`
	At            time.Time          `json:"at"`
}

type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, o Outcome) error
}

const maxConcurrent = 4

// Dispatcher fans an outcome out to every evaluator.
type Dispatcher struct {
	evaluators []Evaluator
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, evaluators ...Evaluator) *Dispatcher {
	return &Dispatcher{evaluators: evaluators, timeout: timeout}
}

// Dispatch evaluates o in the background and returns immediately.
func (d *Dispatcher) Dispatch(o Outcome) {
	if len(d.evaluators) == 0 {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx := context.Background()
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}
		_ = d.DispatchSync(ctx, o)
	}()
}

// DispatchSync runs every evaluator and waits. One failing evaluator does
// not stop the others; the first error is returned.
func (d *Dispatcher) DispatchSync(ctx context.Context, o Outcome) error {
	var g errgroup.Group
	g.SetLimit(maxConcurrent)
	for _, ev := range d.evaluators {
		ev := ev
		g.Go(func() error {
			if err := ev.Evaluate(ctx, o); err != nil {
				logging.Error("post-battle evaluation failed", err, logging.Fields{
					constants.LogFieldEvaluator: ev.Name(),
					constants.LogFieldBattleID:  o.BattleID,
				})
				return fmt.Errorf("%s: %w", ev.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Wait blocks until background dispatches finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
