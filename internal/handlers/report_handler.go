package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/participation-service/internal/services"
	"github.com/campustrack/participation-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService        services.ReportService
	participationHandler *ParticipationHandler
}

func NewReportHandler(reportService services.ReportService, participationHandler *ParticipationHandler, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:          NewBaseHandler(logger),
		reportService:        reportService,
		participationHandler: participationHandler,
	}
}

// ExportParticipations streams the filtered participation list as .xlsx
// @Summary Export participation report
// @Description Generates an Excel workbook of participations matching the filters
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status"
// @Param event_type query string false "Filter by event type"
// @Param date_from query string false "Participations on or after (YYYY-MM-DD)"
// @Param date_to query string false "Participations on or before (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /reports/participations [get]
func (h *ReportHandler) ExportParticipations(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	h.LogRequest(c, "Exporting participation report", "user_id", userID)

	filters := h.participationHandler.parseParticipationFilters(c)
	// The export is a snapshot, not a page
	filters.Limit = 0
	filters.Offset = 0

	buf, filename, err := h.reportService.ExportParticipations(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
