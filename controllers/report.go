// controllers/report.go
package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"salonpro-api/services"
	"salonpro-api/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController handles all reporting functions
type ReportController struct {
	Reports *services.ReportService
}

// GetMonthlyReport handles GET /api/reports?month=YYYY-MM.
func (rc *ReportController) GetMonthlyReport(c *gin.Context) {
	report, err := rc.Reports.Monthly(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, report, "")
}

// ExportMonthlyReport streams the month as an xlsx download.
func (rc *ReportController) ExportMonthlyReport(c *gin.Context) {
	month := c.Query("month")

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := rc.Reports.ExportMonthly(c.Request.Context(), month, &buf); err != nil {
		respondServiceError(c, err)
		return
	}

	name := "salon-report.xlsx"
	if month != "" {
		name = fmt.Sprintf("salon-report-%s.xlsx", month)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
