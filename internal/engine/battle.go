package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ericogr/chimera-descent/internal/game"
)

var (
	ErrBusy               = errors.New("battle is resolving another command")
	ErrNotPlayerTurn      = errors.New("not the player's turn")
	ErrBattleOver         = errors.New("battle is over")
	ErrInvalidHandIndex   = errors.New("hand index out of range")
	ErrCardMismatch       = errors.New("card at hand index does not match instance")
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrInvalidSetup       = errors.New("invalid battle setup")
)

const (
	// MaxHandSize caps the hand; draws beyond it are skipped.
	MaxHandSize = 10
	// DefaultOpeningHand is used when the character stats leave it at zero.
	DefaultOpeningHand = 5
	// BurnDamagePerStack is the fixed damage of one burn stack.
	BurnDamagePerStack = 2
	// DefaultVulnerableMultiplier applies unless a talent raises it.
	DefaultVulnerableMultiplier = 1.5
	// DefaultPoisonMultiplier applies unless a talent raises it.
	DefaultPoisonMultiplier = 2
	// maxDispatchDepth allows one level of handler-triggered events.
	maxDispatchDepth = 2
)

// Rand is the random source used for shuffles, attack rolls and
// confusion. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Pacer inserts presentation delays between command steps. It never
// affects outcomes.
type Pacer interface {
	Pause(ctx context.Context) error
}

// NoPacing resumes immediately unless ctx is done.
type NoPacing struct{}

func (NoPacing) Pause(ctx context.Context) error { return ctx.Err() }

// DelayPacer waits a fixed delay between steps.
type DelayPacer struct {
	Delay time.Duration
}

func (p DelayPacer) Pause(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Setup is everything a battle is built from: the run snapshot values
// plus the selected adversary.
type Setup struct {
	BattleID     string
	RunID        string
	Seed         int64
	Stats        game.CharacterStats
	Character    game.CharacterState
	Health       int
	MaxHealth    int
	Deck         []game.Card
	Equipment    []game.Equipment
	Companions   []game.Companion
	Difficulty   []game.DifficultyModifier
	LastCardType game.CardCategory
	Adversary    game.Adversary
	// Poison is venom the player carries in from the previous battle.
	Poison int
}

// State is the full combat state of one battle.
type State struct {
	ID           string                    `json:"id"`
	RunID        string                    `json:"run_id"`
	Seed         int64                     `json:"seed"`
	Phase        game.Phase                `json:"phase"`
	Turn         int                       `json:"turn"`
	Player       game.Combatant            `json:"player"`
	Adversary    game.Adversary            `json:"adversary"`
	Deck         game.Deck                 `json:"deck"`
	Character    game.CharacterState       `json:"character"`
	BaseDraw     int                       `json:"base_draw"`
	Equipment    []game.Equipment          `json:"equipment"`
	Companions   []game.Companion          `json:"companions"`
	Difficulty   []game.DifficultyModifier `json:"difficulty"`
	LastCardType game.CardCategory         `json:"last_card_type"`

	CardsPlayedThisTurn int  `json:"cards_played_this_turn"`
	DamageCardsThisTurn int  `json:"damage_cards_this_turn"`
	CompanionDiscount   int  `json:"companion_discount"`
	LingeringPoison     int  `json:"lingering_poison"`
	ReviveUsed          bool `json:"revive_used"`
	RestoresUsed        int  `json:"restores_used"`
}

// clone deep-copies every slice and pointer so projections never alias
// live battle state.
func (s *State) clone() State {
	out := *s
	out.Deck = game.Deck{
		Hand:        append([]game.CardInstance(nil), s.Deck.Hand...),
		DrawPile:    append([]game.CardInstance(nil), s.Deck.DrawPile...),
		DiscardPile: append([]game.CardInstance(nil), s.Deck.DiscardPile...),
	}
	out.Adversary.Affixes = append([]game.Affix(nil), s.Adversary.Affixes...)
	out.Adversary.Abilities = append([]game.SpecialAbility(nil), s.Adversary.Abilities...)
	out.Equipment = append([]game.Equipment(nil), s.Equipment...)
	out.Companions = append([]game.Companion(nil), s.Companions...)
	out.Difficulty = append([]game.DifficultyModifier(nil), s.Difficulty...)
	out.Character = s.Character.Clone()
	return out
}

// Option customizes a Battle.
type Option func(*Battle)

func WithRand(r Rand) Option { return func(b *Battle) { b.rng = r } }

func WithPacer(p Pacer) Option { return func(b *Battle) { b.pacer = p } }

func WithClock(now func() time.Time) Option { return func(b *Battle) { b.now = now } }

func WithRegistry(r *Registry) Option { return func(b *Battle) { b.registry = r } }

// Battle runs one fight. Commands are serialized by a busy flag; the
// state lock is only held while a step mutates state, never across a
// pacing pause.
type Battle struct {
	mu   sync.RWMutex
	busy atomic.Bool

	s       State
	log     []game.LogEntry
	handler Character
	locks   map[string]int
	depth   int

	rng      Rand
	pacer    Pacer
	now      func() time.Time
	registry *Registry
}

// New builds a battle from setup, applies start-of-battle modifiers and
// deals the opening hand. The battle starts in the player turn at turn 0.
func New(setup Setup, opts ...Option) (*Battle, error) {
	if err := setup.Character.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	if setup.MaxHealth <= 0 || setup.Adversary.MaxHealth <= 0 {
		return nil, fmt.Errorf("%w: non-positive max health", ErrInvalidSetup)
	}
	b := &Battle{
		locks:    make(map[string]int),
		pacer:    NoPacing{},
		now:      time.Now,
		registry: DefaultRegistry(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.rng == nil {
		b.rng = NewRand(setup.Seed)
	}
	h, err := b.registry.Lookup(setup.Character.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	b.handler = h

	id := setup.BattleID
	if id == "" {
		id = uuid.NewString()
	}
	b.s = State{
		ID:           id,
		RunID:        setup.RunID,
		Seed:         setup.Seed,
		Phase:        game.PhasePlayerTurn,
		Character:    setup.Character.Clone(),
		BaseDraw:     setup.Stats.BaseDraw,
		Equipment:    append([]game.Equipment(nil), setup.Equipment...),
		Companions:   append([]game.Companion(nil), setup.Companions...),
		Difficulty:   append([]game.DifficultyModifier(nil), setup.Difficulty...),
		LastCardType: setup.LastCardType,
		Adversary:    setup.Adversary,
	}
	b.s.Adversary.Affixes = append([]game.Affix(nil), setup.Adversary.Affixes...)
	b.s.Adversary.Abilities = append([]game.SpecialAbility(nil), setup.Adversary.Abilities...)

	if pct := game.SumDifficulty(b.s.Difficulty, game.DifficultyAdversaryHealthPercent); pct != 0 {
		b.s.Adversary.MaxHealth = max(1, b.s.Adversary.MaxHealth*(100+pct)/100)
		b.s.Adversary.Health = b.s.Adversary.MaxHealth
	}

	maxEnergy := EffectiveMaxEnergy(setup.Stats.MaxEnergy, CalculateBonusEnergy(&b.s))
	health := setup.Health
	if health <= 0 || health > setup.MaxHealth {
		health = setup.MaxHealth
	}
	b.s.Player = game.Combatant{
		Health:         health,
		MaxHealth:      setup.MaxHealth,
		Energy:         maxEnergy,
		MaxEnergy:      maxEnergy,
		ReflectPercent: game.SumEquipment(b.s.Equipment, game.EquipReflectPercent),
	}
	if setup.Poison > 0 {
		b.s.Player.Status.Poison = setup.Poison
	}

	pile := make([]game.CardInstance, 0, len(setup.Deck))
	for _, c := range setup.Deck {
		pile = append(pile, game.CardInstance{InstanceID: uuid.NewString(), Card: c})
	}
	b.shuffle(pile)
	b.s.Deck.DrawPile = pile

	b.logf(game.LogSystem, "Battle begins against "+b.s.Adversary.Name+" ("+string(b.s.Adversary.Tier)+")")
	if sh := game.SumEquipment(b.s.Equipment, game.EquipStartShield); sh > 0 {
		b.gainShield(sh, "starting equipment")
	}
	b.handler.OnBattleStart(b)
	b.enforcePassives()

	opening := setup.Stats.OpeningHand
	if opening <= 0 {
		opening = DefaultOpeningHand
	}
	b.drawCards(opening)
	b.rollNextAttack()
	b.clamp()
	return b, nil
}

// ID returns the battle identifier.
func (b *Battle) ID() string { return b.s.ID }

// Phase returns the current phase.
func (b *Battle) Phase() game.Phase {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.Phase
}

// Concluded reports whether the battle reached a terminal phase.
func (b *Battle) Concluded() bool { return b.Phase().Terminal() }

// State returns a deep copy of the current state.
func (b *Battle) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.s.clone()
}

// Log returns a copy of the battle log.
func (b *Battle) Log() []game.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]game.LogEntry(nil), b.log...)
}

func (b *Battle) logf(cat game.LogCategory, msg string) {
	b.log = append(b.log, game.LogEntry{Message: msg, Category: cat, Timestamp: b.now()})
}

func (b *Battle) over() bool { return b.s.Phase.Terminal() }

// step is one atomic slice of a command. A step returning an error stops
// the command.
type step func() error

// run executes steps in order, pausing between them. A command issued while
// another is in flight is rejected with ErrBusy and a battle that already
// ended rejects it with ErrBattleOver, both logged. Later steps are skipped
// once the battle concludes. A ctx cancelled before the first step leaves
// the battle untouched; cancelled after it, the battle is abandoned.
func (b *Battle) run(ctx context.Context, steps ...step) error {
	if !b.busy.CompareAndSwap(false, true) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.reject(ErrBusy)
	}
	defer b.busy.Store(false)

	b.mu.Lock()
	if b.over() {
		err := b.reject(ErrBattleOver)
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, st := range steps {
		if i > 0 {
			if err := b.pacer.Pause(ctx); err != nil {
				b.interrupt(err)
				return err
			}
		}
		b.mu.Lock()
		if b.over() {
			b.mu.Unlock()
			return nil
		}
		err := st()
		b.clamp()
		b.mu.Unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// interrupt abandons a battle whose command was cancelled part way, so it
// never stays parked between phases.
func (b *Battle) interrupt(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.over() {
		return
	}
	b.logf(game.LogSystem, "Command interrupted: "+err.Error())
	b.conclude(game.PhaseAbandoned)
}

// reject logs a refused command and returns err unchanged.
func (b *Battle) reject(err error) error {
	b.logf(game.LogRejected, "Command rejected: "+err.Error())
	return err
}

// shuffle is a Fisher-Yates pass over cards driven by the battle rng.
func (b *Battle) shuffle(cards []game.CardInstance) {
	for i := len(cards) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// clamp restores every numeric invariant of both sides.
func (b *Battle) clamp() {
	p := &b.s.Player
	p.MaxHealth = max(1, p.MaxHealth)
	p.Health = min(max(p.Health, 0), p.MaxHealth)
	p.Shield = max(p.Shield, 0)
	p.MaxEnergy = max(1, p.MaxEnergy)
	p.Energy = min(max(p.Energy, 0), p.MaxEnergy)
	clampStatus(&p.Status)

	a := &b.s.Adversary
	a.MaxHealth = max(1, a.MaxHealth)
	a.Health = min(max(a.Health, 0), a.MaxHealth)
	a.Shield = max(a.Shield, 0)
	a.Confusion = max(a.Confusion, 0)
	a.NextAttack = max(a.NextAttack, 0)
	clampStatus(&a.Status)
}

func clampStatus(s *game.StatusStacks) {
	s.Burn = max(s.Burn, 0)
	s.Poison = max(s.Poison, 0)
	s.Weakness = max(s.Weakness, 0)
}
