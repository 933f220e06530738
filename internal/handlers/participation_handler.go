package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/services"
	"github.com/campustrack/participation-service/internal/utils"
)

type ParticipationHandler struct {
	BaseHandler
	participationService services.ParticipationService
}

func NewParticipationHandler(participationService services.ParticipationService, logger utils.Logger) *ParticipationHandler {
	return &ParticipationHandler{
		BaseHandler:          NewBaseHandler(logger),
		participationService: participationService,
	}
}

// CreateParticipation submits a new participation claim
// @Summary Submit participation
// @Description Submits a participation claim with proof files for review
// @Tags participations
// @Accept json
// @Produce json
// @Param participation body services.CreateParticipationRequest true "Participation data"
// @Success 201 {object} services.ParticipationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /participations [post]
func (h *ParticipationHandler) CreateParticipation(c *gin.Context) {
	var req services.CreateParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	participation, err := h.participationService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participation)
}

// GetParticipation retrieves a participation by ID
// @Summary Get participation
// @Description Retrieves a single participation with proofs and review state
// @Tags participations
// @Accept json
// @Produce json
// @Param id path uint true "Participation ID"
// @Success 200 {object} services.ParticipationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /participations/{id} [get]
func (h *ParticipationHandler) GetParticipation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	participation, err := h.participationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participation)
}

// ListParticipations lists participations visible to the caller
// @Summary List participations
// @Description Lists participations. Students see only their own; reviewers see all, with filters.
// @Tags participations
// @Accept json
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param event_id query uint false "Filter by catalogue event"
// @Param student_id query uint false "Filter by student (reviewers only)"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.ParticipationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /participations [get]
func (h *ParticipationHandler) ListParticipations(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	filters := h.parseParticipationFilters(c)

	response, err := h.participationService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ReviewParticipation settles a pending participation
// @Summary Review participation
// @Description Approves or rejects a pending participation. Rejections require feedback.
// @Tags participations
// @Accept json
// @Produce json
// @Param id path uint true "Participation ID"
// @Param review body services.ReviewParticipationRequest true "Review decision"
// @Success 200 {object} services.ParticipationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Router /participations/{id}/review [patch]
func (h *ParticipationHandler) ReviewParticipation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ReviewParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	reviewerID := h.requireUserID(c)
	if reviewerID == 0 {
		return
	}

	participation, err := h.participationService.Review(c.Request.Context(), id, &req, reviewerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, participation)
}

// ===== QUERY PARSING =====

func (h *ParticipationHandler) parseParticipationFilters(c *gin.Context) repositories.ParticipationFilters {
	filters := repositories.ParticipationFilters{
		SortBy:    c.DefaultQuery("sort_by", "submitted_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if status := c.Query("status"); status != "" {
		s := models.ParticipationStatus(status)
		if s.Valid() {
			filters.Status = &s
		}
	}

	if studentIDStr := c.Query("student_id"); studentIDStr != "" {
		if studentID, err := strconv.ParseUint(studentIDStr, 10, 32); err == nil {
			id := uint(studentID)
			filters.StudentID = &id
		}
	}

	if eventIDStr := c.Query("event_id"); eventIDStr != "" {
		if eventID, err := strconv.ParseUint(eventIDStr, 10, 32); err == nil {
			id := uint(eventID)
			filters.EventID = &id
		}
	}

	if from := c.Query("submitted_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.SubmittedFrom = &t
		}
	}
	if to := c.Query("submitted_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.SubmittedTo = &t
		}
	}

	filters.Limit, filters.Offset = parsePagination(c)

	return filters
}

// parsePagination converts page/size query params into limit/offset
func parsePagination(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	return size, (page - 1) * size
}
