package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/chimera-descent/internal/game"
)

func seedRoster() ([]game.AdversaryTemplate, []game.ScriptedEncounter) {
	return []game.AdversaryTemplate{
			{Key: "rat", Name: "Rat", Tier: game.TierRegular, MaxHealth: 20, AttackMin: 2, AttackMax: 3},
			{Key: "ogre", Name: "Ogre", Tier: game.TierElite, MaxHealth: 60, AttackMin: 6, AttackMax: 8,
				Affixes: []game.Affix{{Name: "Savage", Effect: game.AffixBrutal, Magnitude: 2}}},
			{Key: "dragon", Name: "Dragon", Tier: game.TierBoss, MaxHealth: 150, AttackMin: 10, AttackMax: 14,
				Abilities: []game.SpecialAbility{{Name: "Crush", Kind: game.AbilityPeriodic, Effect: game.EffectHeavyStrike, Period: 3}}},
		}, []game.ScriptedEncounter{
			{BattleIndex: 0, AdversaryKey: "rat"},
		}
}

func newRepo(t *testing.T) Repository {
	t.Helper()
	adv, enc := seedRoster()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "chimera.db"), adv, enc)
	require.NoError(t, err)
	return NewSQLiteRepository(db)
}

func TestOpenAndMigrate_SeedsOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chimera.db")
	adv, enc := seedRoster()
	_, err := OpenAndMigrate(path, adv, enc)
	require.NoError(t, err)
	db, err := OpenAndMigrate(path, adv, enc)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&game.AdversaryTemplate{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestCatalogQueries(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	elites, err := repo.ListElite(ctx)
	require.NoError(t, err)
	require.Len(t, elites, 1)
	assert.Equal(t, "ogre", elites[0].Key)
	assert.Equal(t, game.AffixBrutal, elites[0].Affixes[0].Effect)

	bosses, err := repo.ListBoss(ctx)
	require.NoError(t, err)
	require.Len(t, bosses, 1)
	assert.Equal(t, 3, bosses[0].Abilities[0].Period)

	enc, err := repo.ListScriptedEncounters(ctx)
	require.NoError(t, err)
	require.Len(t, enc, 1)
	assert.Equal(t, "rat", enc[0].AdversaryKey)
}

func TestRunLifecycle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	cs, err := game.NewCharacterState(game.Warrior, game.Talents{"iron_skin"})
	require.NoError(t, err)
	run := &game.RunSnapshot{
		RunID:      "run-1",
		PlayerName: "ana",
		Character:  cs,
		Deck:       []game.Card{{ID: "strike", Name: "Strike", Category: game.CategoryDamage, Value: 6, Cost: 1}},
		Health:     80,
		MaxHealth:  80,
		Status:     game.RunActive,
	}
	require.NoError(t, repo.CreateRun(ctx, run))

	loaded, err := repo.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, loaded.Character.Warrior)
	assert.Equal(t, game.TalentID("iron_skin"), loaded.Character.Talents[0])
	assert.Len(t, loaded.Deck, 1)

	// a snapshot rebuilt without the row id still updates in place
	rebuilt := *loaded
	rebuilt.ID = 0
	rebuilt.Health = 41
	rebuilt.VictoryCount = 1
	rebuilt.Character.Warrior.Rage = 12
	require.NoError(t, repo.SaveRun(ctx, &rebuilt))
	assert.Equal(t, loaded.ID, rebuilt.ID)

	again, err := repo.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 41, again.Health)
	assert.Equal(t, 1, again.VictoryCount)
	assert.Equal(t, 12, again.Character.Warrior.Rage)

	_, err = repo.LoadRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRun_CreatesWhenMissing(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveRun(ctx, &game.RunSnapshot{RunID: "fresh", PlayerName: "bo", Health: 10, MaxHealth: 10}))
	got, err := repo.LoadRun(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "bo", got.PlayerName)
}

func TestRecordOutcome_AccumulatesAndRanks(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.RecordOutcome(ctx, "ana", game.PhaseVictory, at))
	require.NoError(t, repo.RecordOutcome(ctx, "ana", game.PhaseVictory, at))
	require.NoError(t, repo.RecordOutcome(ctx, "ana", game.PhaseDefeat, at))
	require.NoError(t, repo.RecordOutcome(ctx, "bo", game.PhaseVictory, at))
	require.NoError(t, repo.RecordOutcome(ctx, "bo", game.PhaseAbandoned, at))

	ana, err := repo.GetProfile(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 3, ana.BattlesPlayed)
	assert.Equal(t, 2, ana.Victories)
	assert.Equal(t, 1, ana.Defeats)

	bo, err := repo.GetProfile(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, 1, bo.Abandons)

	top, err := repo.GetTopPlayers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "ana", top[0].PlayerName)

	_, err = repo.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
