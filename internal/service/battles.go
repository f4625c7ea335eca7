package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
)

// StartBattle loads the run, selects its next adversary and opens a battle
// session. A run has at most one live battle.
func (s *Service) StartBattle(ctx context.Context, runID string) (BattleView, error) {
	if s.liveBattle(runID) != "" {
		return BattleView{}, ErrBattleInProgress
	}
	run, err := s.loadRun(ctx, runID)
	if err != nil {
		return BattleView{}, err
	}
	if run.Status == game.RunDead {
		return BattleView{}, ErrRunDead
	}
	stats, ok := s.content.character(run.Character.ID)
	if !ok {
		return BattleView{}, fmt.Errorf("%w: %q", game.ErrUnknownCharacter, run.Character.ID)
	}

	seed := s.seed()
	tmpl, err := s.selector.Select(ctx, run.BattleIndex, rand.New(rand.NewSource(seed)))
	if err != nil {
		return BattleView{}, err
	}

	opts := append([]engine.Option{engine.WithPacer(s.pacer)}, s.engineOpts...)
	b, err := engine.New(engine.Setup{
		RunID:        run.RunID,
		Seed:         seed,
		Stats:        stats,
		Character:    run.Character,
		Health:       run.Health,
		MaxHealth:    run.MaxHealth,
		Deck:         run.Deck,
		Equipment:    run.Equipment,
		Companions:   run.Companions,
		Difficulty:   run.Difficulty,
		LastCardType: run.LastCardType,
		Adversary:    tmpl.Spawn(),
		Poison:       run.Poison,
	}, opts...)
	if err != nil {
		return BattleView{}, err
	}

	sctx, cancel := context.WithCancel(context.Background())
	sess := &session{battle: b, ctx: sctx, cancel: cancel, run: *run, lastActivity: s.now()}

	s.mu.Lock()
	if live, ok := s.sessions[s.byRun[runID]]; ok && !live.battle.Concluded() {
		s.mu.Unlock()
		cancel()
		return BattleView{}, ErrBattleInProgress
	}
	s.sessions[b.ID()] = sess
	s.byRun[runID] = b.ID()
	s.mu.Unlock()

	logging.Info("battle started", logging.Fields{
		constants.LogFieldRunID:     runID,
		constants.LogFieldBattleID:  b.ID(),
		constants.LogFieldAdversary: tmpl.Key,
		constants.LogFieldTier:      tmpl.Tier,
	})
	return s.view(sess), nil
}

func (s *Service) liveBattle(runID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byRun[runID]
	if !ok {
		return ""
	}
	if sess, ok := s.sessions[id]; ok && !sess.battle.Concluded() {
		return id
	}
	return ""
}

// PlayCard plays the card at handIndex. The command runs under the
// session's context, not the caller's, so a dropped request cannot stop it
// halfway.
func (s *Service) PlayCard(ctx context.Context, battleID, instanceID string, handIndex int) (BattleView, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return BattleView{}, err
	}
	err = sess.battle.PlayCard(sess.ctx, instanceID, handIndex)
	s.afterCommand(ctx, sess)
	return s.view(sess), err
}

// EndTurn resolves the adversary turn and starts the next player turn.
func (s *Service) EndTurn(ctx context.Context, battleID string) (BattleView, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return BattleView{}, err
	}
	err = sess.battle.EndTurn(sess.ctx)
	s.afterCommand(ctx, sess)
	return s.view(sess), err
}

// Abandon forfeits the battle. Any in-flight command is cancelled at its
// next pause.
func (s *Service) Abandon(ctx context.Context, battleID string) (BattleView, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return BattleView{}, err
	}
	wasOver := sess.battle.Concluded()
	sess.cancel()
	err = sess.battle.Abandon()
	if !wasOver && errors.Is(err, engine.ErrBattleOver) {
		// the in-flight command saw the cancel first and abandoned the battle
		err = nil
	}
	s.afterCommand(ctx, sess)
	return s.view(sess), err
}

// View returns the read-only projection of a battle.
func (s *Service) View(battleID string) (BattleView, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return BattleView{}, err
	}
	return s.view(sess), nil
}

// Log returns the battle log.
func (s *Service) Log(battleID string) ([]game.LogEntry, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return nil, err
	}
	return sess.battle.Log(), nil
}

func (s *Service) afterCommand(ctx context.Context, sess *session) {
	if sess.battle.Concluded() {
		s.conclude(context.WithoutCancel(ctx), sess)
	}
}
