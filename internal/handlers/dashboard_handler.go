package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/participation-service/internal/services"
	"github.com/campustrack/participation-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetDashboardStats returns overall dashboard statistics
// @Summary Get dashboard statistics
// @Description Get totals, review-status counts, event-type distribution and activity feeds
// @Tags dashboard
// @Accept json
// @Produce json
// @Success 200 {object} services.DashboardStatsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats/dashboard [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentSubmissions returns the latest participation submissions
// @Summary Get recent submissions
// @Description Get a feed of the most recently submitted participations
// @Tags dashboard
// @Accept json
// @Produce json
// @Param limit query int false "Number of submissions to return (default: 10, max: 50)"
// @Success 200 {array} repositories.RecentSubmissionData
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /stats/recent-submissions [get]
func (h *DashboardHandler) GetRecentSubmissions(c *gin.Context) {
	h.LogRequest(c, "Getting recent submissions")

	limit := h.parseLimit(c, 10, 50)

	recent, err := h.service.GetRecentSubmissions(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recent)
}

// GetDepartmentActivity returns per-department submission and review load
// @Summary Get department activity
// @Description Get student counts, submission counts and pending-review load per department
// @Tags dashboard
// @Accept json
// @Produce json
// @Param limit query int false "Number of departments to return (default: 10, max: 50)"
// @Success 200 {array} repositories.DepartmentActivityData
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /stats/department-activity [get]
func (h *DashboardHandler) GetDepartmentActivity(c *gin.Context) {
	h.LogRequest(c, "Getting department activity")

	limit := h.parseLimit(c, 10, 50)

	departments, err := h.service.GetDepartmentActivity(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, departments)
}

func (h *DashboardHandler) parseLimit(c *gin.Context, fallback, max int) int {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(fallback))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = fallback
	}
	if limit > max {
		limit = max
	}
	return limit
}
