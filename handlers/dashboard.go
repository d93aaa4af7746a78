package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/services"
	"jobboard/utils"
)

// CandidateDashboard serves the candidate dashboard in one call; sections
// that failed to load are reported by name alongside the ones that succeeded
func CandidateDashboard(dashboards *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := dashboards.LoadCandidate(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Dashboard loaded", dashboard)
	}
}

// CompanyDashboard serves the company dashboard with posting and
// application statistics
func CompanyDashboard(dashboards *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := dashboards.LoadCompany(c.Request.Context())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Dashboard loaded", dashboard)
	}
}
