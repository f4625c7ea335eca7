package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-descent/internal/constants"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *BattleHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group(constants.RouteAPIPrefix)
	{
		api.GET(constants.RouteVersion, Version)
		api.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		api.GET(constants.RoutePlayerByName, h.GetPlayer)

		api.POST(constants.RouteRuns, h.CreateRun)
		api.GET(constants.RouteRunByID, h.GetRun)
		api.POST(constants.RouteRunBattles, h.StartBattle)

		api.GET(constants.RouteBattleByID, h.GetBattle)
		api.GET(constants.RouteBattleLog, h.GetBattleLog)
		api.POST(constants.RouteBattlePlay, h.PlayCard)
		api.POST(constants.RouteBattleEndTurn, h.EndTurn)
		api.POST(constants.RouteBattleAbandon, h.Abandon)
	}
	return router
}
