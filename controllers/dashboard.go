package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

// Summary handles GET /api/dashboard-summary?date=YYYY-MM-DD.
func (dc *DashboardController) Summary(c *gin.Context) {
	summary, err := dc.Dashboard.Summary(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, summary, "")
}
