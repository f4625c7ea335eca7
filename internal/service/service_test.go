package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/chimera-descent/internal/catalog"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/evaluation"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/retry"
	"github.com/ericogr/chimera-descent/internal/storage"
)

type fakeRuns struct {
	mu        sync.Mutex
	runs      map[string]game.RunSnapshot
	loads     int
	failLoads int
	failSaves bool
}

func newFakeRuns() *fakeRuns { return &fakeRuns{runs: map[string]game.RunSnapshot{}} }

func (f *fakeRuns) CreateRun(_ context.Context, run *game.RunSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[run.RunID] = *run
	return nil
}

func (f *fakeRuns) LoadRun(_ context.Context, runID string) (*game.RunSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.failLoads > 0 {
		f.failLoads--
		return nil, errors.New("database is locked")
	}
	run, ok := f.runs[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &run, nil
}

func (f *fakeRuns) SaveRun(_ context.Context, run *game.RunSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves {
		return errors.New("disk full")
	}
	f.runs[run.RunID] = *run
	return nil
}

func (f *fakeRuns) stored(runID string) game.RunSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[runID]
}

type fixedSelector struct{ tmpl game.AdversaryTemplate }

func (f fixedSelector) Select(context.Context, int, catalog.Rand) (game.AdversaryTemplate, error) {
	return f.tmpl, nil
}

type recordingDispatcher struct {
	mu       sync.Mutex
	outcomes []evaluation.Outcome
}

func (r *recordingDispatcher) Dispatch(o evaluation.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingDispatcher) all() []evaluation.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]evaluation.Outcome(nil), r.outcomes...)
}

// fakeRand keeps the deck order and always rolls the top of every range.
type fakeRand struct{}

func (fakeRand) Intn(n int) int   { return n - 1 }
func (fakeRand) Float64() float64 { return 0.99 }

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// gatePacer parks the first pause of a command until it is cancelled.
type gatePacer struct {
	entered chan struct{}
	once    sync.Once
}

func (g *gatePacer) Pause(ctx context.Context) error {
	g.once.Do(func() { close(g.entered) })
	<-ctx.Done()
	return ctx.Err()
}

var fastRetry = retry.Policy{Retries: retry.DefaultRetries, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

func testContent() Content {
	return Content{
		Cards: []game.Card{
			{ID: "strike", Name: "Strike", Category: game.CategoryDamage, Value: 10, Cost: 1},
			{ID: "defend", Name: "Defend", Category: game.CategoryShield, Value: 5, Cost: 1},
		},
		Characters: []game.CharacterStats{{
			ID: game.Warrior, Name: "Warrior", MaxHealth: 80, MaxEnergy: 3, BaseDraw: 2, OpeningHand: 5,
			StarterDeck: []string{"strike", "strike", "strike", "strike", "defend", "defend", "defend", "defend"},
		}},
		Equipment:  []game.Equipment{{ID: "whetstone", Name: "Whetstone", Effect: game.EquipDamageFlat, Magnitude: 1}},
		Companions: []game.Companion{{ID: "hawk", Name: "Hawk", Trigger: game.EventDamageCardPlayed, Effect: game.CompanionStrike, Magnitude: 2}},
		Difficulty: []game.DifficultyModifier{{ID: "taxing", Name: "Taxing", Effect: game.DifficultyCardCostSurcharge, Magnitude: 1}},
	}
}

func weakling() game.AdversaryTemplate {
	return game.AdversaryTemplate{Key: "rat", Name: "Rat", Tier: game.TierRegular, MaxHealth: 5, AttackMin: 1, AttackMax: 1}
}

func brute() game.AdversaryTemplate {
	return game.AdversaryTemplate{Key: "ogre", Name: "Ogre", Tier: game.TierElite, MaxHealth: 500, AttackMin: 100, AttackMax: 100}
}

type fixture struct {
	svc   *Service
	runs  *fakeRuns
	evals *recordingDispatcher
	clock *clock
}

func newFixture(t *testing.T, tmpl game.AdversaryTemplate, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		runs:  newFakeRuns(),
		evals: &recordingDispatcher{},
		clock: &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	all := []Option{
		WithClock(f.clock.now),
		WithSeed(func() int64 { return 7 }),
		WithIdleTimeout(10 * time.Minute),
		WithRetryPolicy(fastRetry),
		WithEngineOptions(engine.WithRand(fakeRand{})),
	}
	f.svc = New(f.runs, fixedSelector{tmpl}, f.evals, testContent(), append(all, opts...)...)
	return f
}

func (f *fixture) createRun(t *testing.T) *game.RunSnapshot {
	t.Helper()
	run, err := f.svc.CreateRun(context.Background(), CreateRunRequest{PlayerName: "ana", Character: game.Warrior})
	require.NoError(t, err)
	return run
}

func playFirst(t *testing.T, svc *Service, v BattleView) (BattleView, error) {
	t.Helper()
	require.NotEmpty(t, v.Deck.Hand)
	return svc.PlayCard(context.Background(), v.ID, v.Deck.Hand[0].InstanceID, 0)
}

func TestCreateRun(t *testing.T) {
	f := newFixture(t, weakling())
	ctx := context.Background()

	run, err := f.svc.CreateRun(ctx, CreateRunRequest{
		PlayerName: "ana",
		Character:  game.Warrior,
		Talents:    []game.TalentID{"iron_skin", "bloodlust"},
		Equipment:  []string{"whetstone"},
		Companions: []string{"hawk"},
		Difficulty: []string{"taxing"},
	})
	require.NoError(t, err)
	assert.Len(t, run.Deck, 8)
	assert.Equal(t, 80, run.Health)
	assert.Equal(t, game.RunActive, run.Status)
	require.NotNil(t, run.Character.Warrior)
	assert.Len(t, run.Equipment, 1)
	assert.Equal(t, run.RunID, f.runs.stored(run.RunID).RunID)

	_, err = f.svc.CreateRun(ctx, CreateRunRequest{Character: "bard"})
	assert.ErrorIs(t, err, game.ErrUnknownCharacter)

	_, err = f.svc.CreateRun(ctx, CreateRunRequest{Character: game.Warrior, Talents: []game.TalentID{"kindling"}})
	assert.ErrorIs(t, err, game.ErrInvalidTalent)

	_, err = f.svc.CreateRun(ctx, CreateRunRequest{Character: game.Warrior, Equipment: []string{"crown"}})
	assert.ErrorIs(t, err, ErrUnknownLoadout)
}

func TestVictoryAdvancesRun(t *testing.T) {
	f := newFixture(t, weakling())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayerTurn, v.Phase)
	assert.Nil(t, v.Run)

	_, err = f.svc.StartBattle(ctx, run.RunID)
	assert.ErrorIs(t, err, ErrBattleInProgress)

	v, err = playFirst(t, f.svc, v)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseVictory, v.Phase)
	require.NotNil(t, v.Run)
	assert.Equal(t, 1, v.Run.VictoryCount)
	assert.Equal(t, 1, v.Run.BattleIndex)
	assert.Equal(t, game.CategoryDamage, v.Run.LastCardType)

	stored := f.runs.stored(run.RunID)
	assert.Equal(t, 1, stored.VictoryCount)
	assert.Equal(t, game.RunActive, stored.Status)
	assert.Len(t, stored.Deck, 8)

	outs := f.evals.all()
	require.Len(t, outs, 1)
	assert.Equal(t, game.PhaseVictory, outs[0].Result)
	assert.Equal(t, "ana", outs[0].PlayerName)
	assert.Equal(t, v.ID, outs[0].BattleID)

	// the concluded battle frees the run for its next battle
	next, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, v.ID, next.ID)
}

func TestCommandsAfterConclusionAreRejected(t *testing.T) {
	f := newFixture(t, weakling())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	v, err = playFirst(t, f.svc, v)
	require.NoError(t, err)

	_, err = f.svc.EndTurn(ctx, v.ID)
	assert.ErrorIs(t, err, engine.ErrBattleOver)
	_, err = f.svc.Abandon(ctx, v.ID)
	assert.ErrorIs(t, err, engine.ErrBattleOver)
	assert.Len(t, f.evals.all(), 1)
}

func TestDefeatEndsRun(t *testing.T) {
	f := newFixture(t, brute())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	v, err = f.svc.EndTurn(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseDefeat, v.Phase)
	require.NotNil(t, v.Run)
	assert.Equal(t, game.RunDead, v.Run.Status)
	assert.Equal(t, 0, v.Run.Health)

	_, err = f.svc.StartBattle(ctx, run.RunID)
	assert.ErrorIs(t, err, ErrRunDead)
}

func TestInputErrorsLeaveBattleRunning(t *testing.T) {
	f := newFixture(t, brute())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)

	_, err = f.svc.PlayCard(ctx, v.ID, "nope", 0)
	assert.ErrorIs(t, err, engine.ErrCardMismatch)
	_, err = f.svc.PlayCard(ctx, v.ID, "", 42)
	assert.ErrorIs(t, err, engine.ErrInvalidHandIndex)

	after, err := f.svc.View(v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Player, after.Player)
	assert.Equal(t, game.PhasePlayerTurn, after.Phase)

	_, err = f.svc.View("missing")
	assert.ErrorIs(t, err, ErrBattleNotFound)
}

func TestAbandonForfeitsRun(t *testing.T) {
	f := newFixture(t, brute())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	v, err = f.svc.Abandon(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseAbandoned, v.Phase)
	assert.Equal(t, game.RunDead, f.runs.stored(run.RunID).Status)

	outs := f.evals.all()
	require.Len(t, outs, 1)
	assert.Equal(t, game.PhaseAbandoned, outs[0].Result)

	log, err := f.svc.Log(v.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, log)
}

func TestSaveFailureStillReturnsOutcome(t *testing.T) {
	f := newFixture(t, weakling())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)

	f.runs.mu.Lock()
	f.runs.failSaves = true
	f.runs.mu.Unlock()

	v, err = playFirst(t, f.svc, v)
	require.NoError(t, err)
	require.NotNil(t, v.Run)
	assert.Equal(t, 1, v.Run.VictoryCount)
	assert.Equal(t, 0, f.runs.stored(run.RunID).VictoryCount)

	// the local result is served until the store accepts it
	got, err := f.svc.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VictoryCount)

	f.runs.mu.Lock()
	f.runs.failSaves = false
	f.runs.mu.Unlock()

	_, err = f.svc.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.runs.stored(run.RunID).VictoryCount)
}

func TestLoadRunRetries(t *testing.T) {
	f := newFixture(t, weakling())
	run := f.createRun(t)
	ctx := context.Background()

	f.runs.mu.Lock()
	f.runs.failLoads = 2
	f.runs.mu.Unlock()
	_, err := f.svc.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, f.runs.loads)

	f.runs.mu.Lock()
	f.runs.loads, f.runs.failLoads = 0, 5
	f.runs.mu.Unlock()
	_, err = f.svc.GetRun(ctx, run.RunID)
	require.Error(t, err)
	assert.Equal(t, 3, f.runs.loads)

	f.runs.mu.Lock()
	f.runs.loads, f.runs.failLoads = 0, 0
	f.runs.mu.Unlock()
	_, err = f.svc.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.Equal(t, 1, f.runs.loads)
}

func TestReapIdle(t *testing.T) {
	f := newFixture(t, brute())
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)

	f.clock.advance(5 * time.Minute)
	assert.Equal(t, 0, f.svc.ReapIdle(ctx, f.clock.now()))

	f.clock.advance(11 * time.Minute)
	assert.Equal(t, 1, f.svc.ReapIdle(ctx, f.clock.now()))

	_, err = f.svc.View(v.ID)
	assert.ErrorIs(t, err, ErrBattleNotFound)
	assert.Equal(t, game.RunDead, f.runs.stored(run.RunID).Status)
	outs := f.evals.all()
	require.Len(t, outs, 1)
	assert.Equal(t, game.PhaseAbandoned, outs[0].Result)
}

func TestDeathVenomCarriesIntoNextBattle(t *testing.T) {
	tmpl := weakling()
	tmpl.Abilities = []game.SpecialAbility{{Name: "Last Bite", Kind: game.AbilityDeath, Effect: game.EffectDeathVenom, Magnitude: 3}}
	f := newFixture(t, tmpl)
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	v, err = playFirst(t, f.svc, v)
	require.NoError(t, err)
	require.Equal(t, game.PhaseVictory, v.Phase)
	require.NotNil(t, v.Run)
	assert.Equal(t, 3, v.Run.Poison)
	assert.Equal(t, 3, f.runs.stored(run.RunID).Poison)

	next, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Player.Status.Poison)

	health := next.Player.Health
	next, err = f.svc.EndTurn(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, health-3-1, next.Player.Health)
}

func TestAbandonDuringPacedTurn(t *testing.T) {
	gate := &gatePacer{entered: make(chan struct{})}
	f := newFixture(t, brute(), WithPacer(gate))
	run := f.createRun(t)
	ctx := context.Background()

	v, err := f.svc.StartBattle(ctx, run.RunID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.EndTurn(ctx, v.ID)
		done <- err
	}()
	<-gate.entered

	v, err = f.svc.Abandon(ctx, v.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, game.PhaseAbandoned, v.Phase)
	assert.Equal(t, game.RunDead, f.runs.stored(run.RunID).Status)
	assert.Len(t, f.evals.all(), 1)
}
