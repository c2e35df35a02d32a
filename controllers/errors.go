package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ddaazzz/qr-restaurant-sub000/services"
	"github.com/ddaazzz/qr-restaurant-sub000/utils"
)

// respondServiceError translates engine sentinels into HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrNoFreeUnit),
		errors.Is(err, services.ErrAlreadyClosed):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrBusy):
		utils.RespondError(c, http.StatusServiceUnavailable, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
