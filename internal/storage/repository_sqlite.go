package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ericogr/chimera-descent/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *sqliteRepository) listTier(ctx context.Context, tier game.AdversaryTier) ([]game.AdversaryTemplate, error) {
	var out []game.AdversaryTemplate
	if err := r.db.WithContext(ctx).Where("tier = ?", tier).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) ListRegular(ctx context.Context) ([]game.AdversaryTemplate, error) {
	return r.listTier(ctx, game.TierRegular)
}

func (r *sqliteRepository) ListElite(ctx context.Context) ([]game.AdversaryTemplate, error) {
	return r.listTier(ctx, game.TierElite)
}

func (r *sqliteRepository) ListBoss(ctx context.Context) ([]game.AdversaryTemplate, error) {
	return r.listTier(ctx, game.TierBoss)
}

func (r *sqliteRepository) ListScriptedEncounters(ctx context.Context) ([]game.ScriptedEncounter, error) {
	var out []game.ScriptedEncounter
	if err := r.db.WithContext(ctx).Order("battle_index").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) CreateRun(ctx context.Context, run *game.RunSnapshot) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *sqliteRepository) LoadRun(ctx context.Context, runID string) (*game.RunSnapshot, error) {
	var run game.RunSnapshot
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

// SaveRun resolves the row id from run_id when the caller built the
// snapshot from scratch, then saves every column.
func (r *sqliteRepository) SaveRun(ctx context.Context, run *game.RunSnapshot) error {
	db := r.db.WithContext(ctx)
	if run.ID == 0 {
		var existing game.RunSnapshot
		err := db.Select("id", "created_at").Where("run_id = ?", run.RunID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return db.Create(run).Error
		case err != nil:
			return err
		}
		run.ID = existing.ID
		run.CreatedAt = existing.CreatedAt
	}
	return db.Save(run).Error
}

// RecordOutcome upserts the profile row. Counters are incremented in SQL
// so concurrent outcomes for the same player do not lose updates.
func (r *sqliteRepository) RecordOutcome(ctx context.Context, playerName string, outcome game.Phase, at time.Time) error {
	p := game.PlayerProfile{PlayerName: playerName, BattlesPlayed: 1, LastPlayedAt: at}
	switch outcome {
	case game.PhaseVictory:
		p.Victories = 1
	case game.PhaseDefeat:
		p.Defeats = 1
	case game.PhaseAbandoned:
		p.Abandons = 1
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"battles_played": gorm.Expr("battles_played + 1"),
			"victories":      gorm.Expr("victories + ?", p.Victories),
			"defeats":        gorm.Expr("defeats + ?", p.Defeats),
			"abandons":       gorm.Expr("abandons + ?", p.Abandons),
			"last_played_at": at,
			"updated_at":     at,
		}),
	}).Create(&p).Error
}

func (r *sqliteRepository) GetProfile(ctx context.Context, playerName string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.WithContext(ctx).Where("player_name = ?", playerName).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *sqliteRepository) GetTopPlayers(ctx context.Context, limit int) ([]game.PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var players []game.PlayerProfile
	if err := r.db.WithContext(ctx).Model(&game.PlayerProfile{}).
		Order("victories DESC").
		Order("battles_played DESC").
		Limit(limit).
		Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
