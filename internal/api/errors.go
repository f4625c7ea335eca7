package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/chimera-descent/internal/catalog"
	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/engine"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"
	"github.com/ericogr/chimera-descent/internal/service"
	"github.com/ericogr/chimera-descent/internal/storage"
)

// statusFor maps service and engine errors to a status and message.
// fallback is used for anything unexpected.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		return http.StatusNotFound, constants.ErrBattleNotFound
	case errors.Is(err, service.ErrRunNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, constants.ErrRunNotFound
	case errors.Is(err, service.ErrRunDead):
		return http.StatusConflict, constants.ErrRunDead
	case errors.Is(err, service.ErrBattleInProgress):
		return http.StatusConflict, constants.ErrBattleInProgress
	case errors.Is(err, engine.ErrBusy):
		return http.StatusConflict, constants.ErrBattleBusy
	case errors.Is(err, engine.ErrNotPlayerTurn):
		return http.StatusConflict, constants.ErrNotPlayerTurn
	case errors.Is(err, engine.ErrBattleOver), errors.Is(err, context.Canceled):
		return http.StatusConflict, constants.ErrBattleOver
	case errors.Is(err, engine.ErrInvalidHandIndex):
		return http.StatusBadRequest, constants.ErrInvalidHandIndex
	case errors.Is(err, engine.ErrCardMismatch):
		return http.StatusBadRequest, constants.ErrCardMismatch
	case errors.Is(err, engine.ErrInsufficientEnergy):
		return http.StatusBadRequest, constants.ErrInsufficientEnergy
	case errors.Is(err, game.ErrUnknownCharacter):
		return http.StatusBadRequest, constants.ErrUnknownCharacter
	case errors.Is(err, game.ErrInvalidTalent):
		return http.StatusBadRequest, constants.ErrInvalidTalent
	case errors.Is(err, service.ErrUnknownLoadout):
		return http.StatusBadRequest, constants.ErrUnknownLoadout
	case errors.Is(err, catalog.ErrNoAdversaries):
		return http.StatusServiceUnavailable, constants.ErrNoAdversaries
	default:
		return http.StatusInternalServerError, fallback
	}
}

func abortWithError(c *gin.Context, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		logging.Error(fallback, err, logging.Fields{constants.LogFieldPath: c.FullPath()})
	}
	body := gin.H{constants.JSONKeyError: msg}
	if status < http.StatusInternalServerError && msg != err.Error() {
		body[constants.JSONKeyDetails] = err.Error()
	}
	c.JSON(status, body)
}
