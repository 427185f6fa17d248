package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonpro-api/services"
	"salonpro-api/utils"
)

// respondServiceError maps a service error onto the response envelope.
// An unconfigured store is reported with 200 and success=false so the UI
// can show a setup hint instead of an outage.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		utils.RespondWithErrorDetails(c, http.StatusOK, "Database not configured", err.Error())
	case errors.Is(err, services.ErrDataUnavailable):
		utils.RespondWithErrorDetails(c, http.StatusServiceUnavailable, "Data unavailable", err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithErrorDetails(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithErrorDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithErrorDetails(c, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondWithErrorDetails(c, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, services.ErrQueryFailed):
		utils.RespondWithErrorDetails(c, http.StatusInternalServerError, "Query failed", err.Error())
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		utils.RespondWithErrorDetails(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func bindJSON(c *gin.Context, input interface{}) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		utils.RespondWithErrorDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithErrorDetails(c, http.StatusBadRequest, "Invalid ID format", err.Error())
		return uuid.Nil, false
	}
	return id, true
}
