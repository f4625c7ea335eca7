package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-descent/internal/constants"
)

type PlayCardRequest struct {
	InstanceID string `json:"instance_id"`
	HandIndex  *int   `json:"hand_index"`
}

// GetBattle returns the battle projection.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	v, err := h.svc.View(c.Param("battleID"))
	if err != nil {
		abortWithError(c, err, constants.ErrBattleNotFound)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetBattleLog returns the battle log entries.
func (h *BattleHandler) GetBattleLog(c *gin.Context) {
	log, err := h.svc.Log(c.Param("battleID"))
	if err != nil {
		abortWithError(c, err, constants.ErrBattleNotFound)
		return
	}
	c.JSON(http.StatusOK, log)
}

// PlayCard plays one card from the hand. Both the index and the card's
// instance id are required so a stale client cannot play the wrong card.
func (h *BattleHandler) PlayCard(c *gin.Context) {
	var req PlayCardRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HandIndex == nil || req.InstanceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	v, err := h.svc.PlayCard(c.Request.Context(), c.Param("battleID"), req.InstanceID, *req.HandIndex)
	if err != nil {
		abortWithError(c, err, constants.ErrFailedCommand)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *BattleHandler) EndTurn(c *gin.Context) {
	v, err := h.svc.EndTurn(c.Request.Context(), c.Param("battleID"))
	if err != nil {
		abortWithError(c, err, constants.ErrFailedCommand)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *BattleHandler) Abandon(c *gin.Context) {
	v, err := h.svc.Abandon(c.Request.Context(), c.Param("battleID"))
	if err != nil {
		abortWithError(c, err, constants.ErrFailedCommand)
		return
	}
	c.JSON(http.StatusOK, v)
}
