// controllers/dashboard.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagepro-backend/services"
	"garagepro-backend/utils"
)

type DashboardController struct {
	Reports *services.ReportService
}

// GetStats returns dashboard figures for ?period=daily|monthly|yearly
// (empty for all time).
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.Reports.GetDashboardStats(c.Query("period"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetAgingStock lists parts in stock whose earliest purchase receipt is
// older than ?months= (default 12).
func (dc *DashboardController) GetAgingStock(c *gin.Context) {
	months := 12
	if v := c.Query("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid 'months' value")
			return
		}
		months = parsed
	}

	entries, err := dc.Reports.GetAgingStock(months)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
