package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/events"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/validator"
)

type eventService struct {
	repo         repositories.Repository
	notification NotificationService
	publisher    events.EventPublisher
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewEventService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, notification NotificationService) EventService {
	return &eventService{
		repo:         repo,
		notification: notification,
		publisher:    publisher,
		db:           db,
		logger:       logger,
		validator:    validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *eventService) Create(ctx context.Context, req *CreateEventRequest, creatorID uint) (*EventResponse, error) {
	s.logger.Info("Creating event", "creator_id", creatorID, "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleProctor && user.Role != models.RoleAdmin {
		return nil, NewPermissionError(creatorID, 0, "event", "create", "insufficient role permissions")
	}

	exists, err := s.repo.Event().ExistsByTitleAndDate(ctx, s.db, req.Title, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check event uniqueness: %w", err)
	}
	if exists {
		return nil, ErrEventDuplicate
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Venue:       req.Venue,
		PostedBy:    creatorID,
		IsPinned:    req.IsPinned,
		IsActive:    true,
		BannerURL:   req.BannerURL,
	}

	if err := s.repo.Event().Create(ctx, s.db, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created successfully", "event_id", event.ID)

	s.publishCreated(ctx, event)
	s.notifyStudentsOfEvent(ctx, event)

	return s.toResponse(event, user), nil
}

func (s *eventService) GetByID(ctx context.Context, id uint, userID uint) (*EventResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Event().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return s.toResponse(event, user), nil
}

func (s *eventService) Update(ctx context.Context, id uint, req *UpdateEventRequest, userID uint) (*EventResponse, error) {
	s.logger.Info("Updating event", "event_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Event().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !s.canEdit(event, user) {
		return nil, NewPermissionError(userID, id, "event", "update", "not creator or insufficient permissions")
	}

	applyEventUpdate(event, req)
	if !event.EndDate.After(event.StartDate) {
		return nil, validator.ValidationErrors{{
			Field:   "end_date",
			Message: "must be after start_date",
			Rule:    "business_logic",
		}}
	}

	if err := s.repo.Event().Update(ctx, s.db, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return s.toResponse(event, user), nil
}

func (s *eventService) Delete(ctx context.Context, id uint, userID uint) error {
	s.logger.Info("Deleting event", "event_id", id, "user_id", userID)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	event, err := s.repo.Event().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if !s.canEdit(event, user) {
		return NewPermissionError(userID, id, "event", "delete", "not creator or insufficient permissions")
	}

	// Deleting the catalogue entry would orphan linked submissions
	filters := repositories.ParticipationFilters{EventID: &id, Limit: 1}
	_, total, err := s.repo.Participation().List(ctx, s.db, filters)
	if err != nil {
		return fmt.Errorf("failed to check event participations: %w", err)
	}
	if total > 0 {
		return ErrEventHasSubmissions
	}

	if err := s.repo.Event().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

func (s *eventService) List(ctx context.Context, filters repositories.EventFilters, userID uint) (*EventListResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	eventList, total, err := s.repo.Event().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]*EventResponse, 0, len(eventList))
	for _, event := range eventList {
		responses = append(responses, s.toResponse(event, user))
	}

	return &EventListResponse{
		Events: responses,
		Total:  total,
		Page:   pageFromOffset(filters.Limit, filters.Offset),
		Size:   filters.Limit,
	}, nil
}

// ===== HELPERS =====

func (s *eventService) getUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *eventService) canEdit(event *models.Event, user *models.User) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.Role == models.RoleProctor && event.PostedBy == user.ID
}

func (s *eventService) toResponse(event *models.Event, user *models.User) *EventResponse {
	return &EventResponse{
		Event:   event,
		CanEdit: s.canEdit(event, user),
	}
}

func applyEventUpdate(event *models.Event, req *UpdateEventRequest) {
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.Venue != nil {
		event.Venue = req.Venue
	}
	if req.IsPinned != nil {
		event.IsPinned = *req.IsPinned
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if req.BannerURL != nil {
		event.BannerURL = req.BannerURL
	}
}

func (s *eventService) publishCreated(ctx context.Context, event *models.Event) {
	if s.publisher == nil {
		return
	}

	evt := events.NewEvent(events.TypeEventCreated, events.EventCreatedEvent{
		EventID:   event.ID,
		Title:     event.Title,
		Category:  string(event.Category),
		StartDate: event.StartDate,
		PostedBy:  event.PostedBy,
	})
	if err := s.publisher.Publish(ctx, events.TopicParticipations, evt); err != nil {
		s.logger.Warn("Failed to publish event created event", "event_id", event.ID, "error", err)
	}
}

// notifyStudentsOfEvent fans an announcement out to every student account.
// Best-effort: the event itself is already committed.
func (s *eventService) notifyStudentsOfEvent(ctx context.Context, event *models.Event) {
	if s.notification == nil {
		return
	}

	title := "New campus event"
	message := fmt.Sprintf("%q (%s) starts on %s.", event.Title, event.Category, event.StartDate.Format("2006-01-02"))
	metadata := map[string]interface{}{
		"event_id": event.ID,
		"category": string(event.Category),
	}
	if err := s.notification.NotifyRole(ctx, models.RoleStudent, title, message, models.NotificationEvent, metadata); err != nil {
		s.logger.Warn("Failed to notify students of event", "event_id", event.ID, "error", err)
	}
}
