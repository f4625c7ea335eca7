package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/service"
)

const maxPlayerNameLen = 32

// CreateRun starts a new run for the requested character and loadout.
func (h *BattleHandler) CreateRun(c *gin.Context) {
	var req service.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" || len(req.PlayerName) > maxPlayerNameLen {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: "player_name must be 1-32 characters"})
		return
	}
	run, err := h.svc.CreateRun(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err, constants.ErrFailedCreateRun)
		return
	}
	out, err := MarshalIntoSnakeTimestamps(run)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateRun})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// GetRun returns the latest run snapshot.
func (h *BattleHandler) GetRun(c *gin.Context) {
	run, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		abortWithError(c, err, constants.ErrRunNotFound)
		return
	}
	out, err := MarshalIntoSnakeTimestamps(run)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrRunNotFound})
		return
	}
	c.JSON(http.StatusOK, out)
}

// StartBattle opens the run's next battle.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	v, err := h.svc.StartBattle(c.Request.Context(), c.Param("runID"))
	if err != nil {
		abortWithError(c, err, constants.ErrFailedStartBattle)
		return
	}
	c.JSON(http.StatusCreated, v)
}
