package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericogr/chimera-descent/internal/catalog"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/evaluation"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/retry"
)

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrRunDead          = errors.New("run has ended")
	ErrBattleNotFound   = errors.New("battle not found")
	ErrBattleInProgress = errors.New("run already has a battle in progress")
	ErrUnknownLoadout   = errors.New("unknown equipment, companion or difficulty id")
)

// RunStore persists run snapshots.
type RunStore interface {
	CreateRun(ctx context.Context, run *game.RunSnapshot) error
	LoadRun(ctx context.Context, runID string) (*game.RunSnapshot, error)
	SaveRun(ctx context.Context, run *game.RunSnapshot) error
}

type AdversarySelector interface {
	Select(ctx context.Context, battleIndex int, rng catalog.Rand) (game.AdversaryTemplate, error)
}

type OutcomeDispatcher interface {
	Dispatch(o evaluation.Outcome)
}

// Content is the static game data runs are built from.
type Content struct {
	Cards      []game.Card
	Characters []game.CharacterStats
	Equipment  []game.Equipment
	Companions []game.Companion
	Difficulty []game.DifficultyModifier
}

func (c Content) character(id game.CharacterID) (game.CharacterStats, bool) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return game.CharacterStats{}, false
}

func (c Content) card(id string) (game.Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return game.Card{}, false
}

// Service owns the live battle sessions and moves results between the
// engine and the run store.
type Service struct {
	runs     RunStore
	selector AdversarySelector
	evals    OutcomeDispatcher
	content  Content

	pacer       engine.Pacer
	idleTimeout time.Duration
	engineOpts  []engine.Option
	policy      retry.Policy
	now         func() time.Time
	seed        func() int64

	mu       sync.Mutex
	sessions map[string]*session
	byRun    map[string]string
	// pending holds snapshots whose save failed at conclusion. They take
	// precedence over the store until a save succeeds.
	pending map[string]game.RunSnapshot
}

type Option func(*Service)

func WithPacer(p engine.Pacer) Option { return func(s *Service) { s.pacer = p } }

func WithIdleTimeout(d time.Duration) Option { return func(s *Service) { s.idleTimeout = d } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithSeed(seed func() int64) Option { return func(s *Service) { s.seed = seed } }

func WithRetryPolicy(p retry.Policy) Option { return func(s *Service) { s.policy = p } }

// WithEngineOptions are passed to every engine.New call.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Service) { s.engineOpts = append(s.engineOpts, opts...) }
}

func New(runs RunStore, selector AdversarySelector, evals OutcomeDispatcher, content Content, opts ...Option) *Service {
	s := &Service{
		runs:     runs,
		selector: selector,
		evals:    evals,
		content:  content,
		pacer:    engine.NoPacing{},
		policy:   retry.DefaultPolicy,
		now:      time.Now,
		seed:     func() int64 { return time.Now().UnixNano() },
		sessions: make(map[string]*session),
		byRun:    make(map[string]string),
		pending:  make(map[string]game.RunSnapshot),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// session is one live battle. ctx is cancelled when the battle is
// abandoned or reaped so in-flight pacing stops.
type session struct {
	battle       *engine.Battle
	ctx          context.Context
	cancel       context.CancelFunc
	run          game.RunSnapshot
	lastActivity time.Time
	concludeOnce sync.Once
	final        *game.RunSnapshot
}

// BattleView is the engine projection plus the updated run once the battle
// has concluded.
type BattleView struct {
	engine.View
	Run *game.RunSnapshot `json:"run,omitempty"`
}

func (s *Service) session(battleID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[battleID]
	if !ok {
		return nil, ErrBattleNotFound
	}
	sess.lastActivity = s.now()
	return sess, nil
}

func (s *Service) view(sess *session) BattleView {
	v := BattleView{View: sess.battle.View()}
	s.mu.Lock()
	if sess.final != nil {
		run := *sess.final
		v.Run = &run
	}
	s.mu.Unlock()
	return v
}
