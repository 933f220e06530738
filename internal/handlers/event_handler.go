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

type EventHandler struct {
	BaseHandler
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService, logger utils.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:  NewBaseHandler(logger),
		eventService: eventService,
	}
}

// CreateEvent publishes a new campus event
// @Summary Create event
// @Description Publishes a campus event and announces it to all students
// @Tags events
// @Accept json
// @Produce json
// @Param event body services.CreateEventRequest true "Event data"
// @Success 201 {object} services.EventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate event"
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
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

	event, err := h.eventService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent retrieves an event by ID
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} services.EventResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListEvents lists catalogued events
// @Summary List events
// @Tags events
// @Produce json
// @Param category query string false "Filter by event category"
// @Param date_from query string false "Events starting on or after (YYYY-MM-DD)"
// @Param date_to query string false "Events starting on or before (YYYY-MM-DD)"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.EventListResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	filters := h.parseEventFilters(c)

	response, err := h.eventService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateEvent updates an event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param event body services.UpdateEventRequest true "Fields to update"
// @Success 200 {object} services.EventResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateEventRequest
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

	event, err := h.eventService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event that has no linked submissions
// @Summary Delete event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Event has participations"
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EventHandler) parseEventFilters(c *gin.Context) repositories.EventFilters {
	filters := repositories.EventFilters{
		SortBy:    c.DefaultQuery("sort_by", "start_date"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if category := c.Query("category"); category != "" {
		cat := models.EventCategory(category)
		if cat.Valid() {
			filters.Category = &cat
		}
	}

	if postedByStr := c.Query("posted_by"); postedByStr != "" {
		if postedBy, err := strconv.ParseUint(postedByStr, 10, 32); err == nil {
			id := uint(postedBy)
			filters.PostedBy = &id
		}
	}

	if activeStr := c.Query("is_active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filters.IsActive = &active
		}
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		if t, err := time.Parse("2006-01-02", dateFrom); err == nil {
			filters.DateFrom = &t
		}
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		if t, err := time.Parse("2006-01-02", dateTo); err == nil {
			filters.DateTo = &t
		}
	}

	filters.Limit, filters.Offset = parsePagination(c)

	return filters
}
