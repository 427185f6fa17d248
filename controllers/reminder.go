package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

type ReminderController struct {
	Reminders *services.ReminderService
}

// RunLoyaltyReminders triggers the scheduled loyalty job immediately.
func (rc *ReminderController) RunLoyaltyReminders(c *gin.Context) {
	sent, err := rc.Reminders.SendLoyaltyReminders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"sent": sent}, "Loyalty reminders processed")
}

// GetReminderLogs handles GET /api/reminders/logs?limit=N.
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := rc.Reminders.History(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, logs, "")
}
