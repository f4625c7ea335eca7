package api

import (
	"context"

	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/service"
)

// BattleService is the command surface the handlers drive.
type BattleService interface {
	CreateRun(ctx context.Context, req service.CreateRunRequest) (*game.RunSnapshot, error)
	GetRun(ctx context.Context, runID string) (*game.RunSnapshot, error)
	StartBattle(ctx context.Context, runID string) (service.BattleView, error)
	PlayCard(ctx context.Context, battleID, instanceID string, handIndex int) (service.BattleView, error)
	EndTurn(ctx context.Context, battleID string) (service.BattleView, error)
	Abandon(ctx context.Context, battleID string) (service.BattleView, error)
	View(battleID string) (service.BattleView, error)
	Log(battleID string) ([]game.LogEntry, error)
}

type ProfileStore interface {
	GetTopPlayers(ctx context.Context, limit int) ([]game.PlayerProfile, error)
	GetProfile(ctx context.Context, playerName string) (*game.PlayerProfile, error)
}

// BattleHandler groups the run, battle and leaderboard handlers.
type BattleHandler struct {
	svc      BattleService
	profiles ProfileStore
}

func NewBattleHandler(svc BattleService, profiles ProfileStore) *BattleHandler {
	return &BattleHandler{svc: svc, profiles: profiles}
}
