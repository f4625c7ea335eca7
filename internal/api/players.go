package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-descent/internal/constants"
)

// ListLeaderboard returns the top players by victories, limited to top 10 by default.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	// optional ?limit=N
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	players, err := h.profiles.GetTopPlayers(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err, constants.ErrFailedFetchLeaderboard)
		return
	}
	out, err := MarshalIntoSnakeTimestamps(players)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *BattleHandler) GetPlayer(c *gin.Context) {
	p, err := h.profiles.GetProfile(c.Request.Context(), c.Param("name"))
	if err != nil {
		status, msg := statusFor(err, constants.ErrFailedFetchLeaderboard)
		if status == http.StatusNotFound {
			msg = constants.ErrPlayerNotFound
		}
		c.JSON(status, gin.H{constants.JSONKeyError: msg})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}
