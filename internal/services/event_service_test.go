package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/validator"
)

func newEventTestService(repo *mockRepository, notifier *mockNotifier) *eventService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &eventService{
		repo:         repo,
		notification: notifier,
		logger:       logger,
		validator:    validator.New(),
	}
}

func validEventRequest() *CreateEventRequest {
	return &CreateEventRequest{
		Title:     "Hackathon 2024",
		Category:  models.EventCategoryHackathon,
		StartDate: time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 11, 17, 0, 0, 0, 0, time.UTC),
	}
}

func TestEventService_Create(t *testing.T) {
	repo := newTestRepository()
	notifier := &mockNotifier{}
	service := newEventTestService(repo, notifier)

	response, err := service.Create(context.Background(), validEventRequest(), 2)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if response.ID == 0 {
		t.Error("Expected event to be assigned an id")
	}
	if response.PostedBy != 2 {
		t.Errorf("Expected poster 2, got %d", response.PostedBy)
	}
	if !response.IsActive {
		t.Error("New events should start active")
	}
	if !response.CanEdit {
		t.Error("Creator should be able to edit their own event")
	}

	// Students should hear about the new event
	if len(notifier.roleCalls) != 1 {
		t.Fatalf("Expected 1 role notification, got %d", len(notifier.roleCalls))
	}
	if notifier.roleCalls[0].role != models.RoleStudent {
		t.Errorf("Expected student announcement, got role %s", notifier.roleCalls[0].role)
	}
}

func TestEventService_Create_DeniedForStudents(t *testing.T) {
	repo := newTestRepository()
	service := newEventTestService(repo, &mockNotifier{})

	_, err := service.Create(context.Background(), validEventRequest(), 1)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError, got %T: %v", err, err)
	}
}

func TestEventService_Create_Duplicate(t *testing.T) {
	repo := newTestRepository()
	repo.event.titleTaken = true
	service := newEventTestService(repo, &mockNotifier{})

	_, err := service.Create(context.Background(), validEventRequest(), 2)
	if !errors.Is(err, ErrEventDuplicate) {
		t.Fatalf("Expected ErrEventDuplicate, got %v", err)
	}
}

func TestEventService_Update_OwnershipRules(t *testing.T) {
	repo := newTestRepository()
	repo.event.events[1] = &models.Event{
		ID:        1,
		Title:     "Hackathon 2024",
		Category:  models.EventCategoryHackathon,
		StartDate: time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 11, 17, 0, 0, 0, 0, time.UTC),
		PostedBy:  2,
	}
	service := newEventTestService(repo, &mockNotifier{})
	ctx := context.Background()

	newTitle := "Hackathon 2024 (rescheduled)"
	req := &UpdateEventRequest{Title: &newTitle}

	// Another proctor cannot edit someone else's event
	repo.user.users[4] = &models.User{ID: 4, Username: "other", Role: models.RoleProctor, FirstName: "Other", LastName: "Proctor", IsActive: true}
	_, err := service.Update(ctx, 1, req, 4)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError for foreign proctor, got %v", err)
	}

	// The creator can
	response, err := service.Update(ctx, 1, req, 2)
	if err != nil {
		t.Fatalf("Update by creator failed: %v", err)
	}
	if response.Title != newTitle {
		t.Errorf("Expected updated title, got %q", response.Title)
	}

	// And so can an admin
	if _, err := service.Update(ctx, 1, req, 3); err != nil {
		t.Fatalf("Update by admin failed: %v", err)
	}
}

func TestEventService_Update_RejectsInvertedDates(t *testing.T) {
	repo := newTestRepository()
	repo.event.events[1] = &models.Event{
		ID:        1,
		Title:     "Hackathon 2024",
		Category:  models.EventCategoryHackathon,
		StartDate: time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 11, 17, 0, 0, 0, 0, time.UTC),
		PostedBy:  2,
	}
	service := newEventTestService(repo, &mockNotifier{})

	badEnd := time.Date(2024, 11, 14, 0, 0, 0, 0, time.UTC)
	req := &UpdateEventRequest{EndDate: &badEnd}

	_, err := service.Update(context.Background(), 1, req, 2)
	if err == nil {
		t.Fatal("Expected validation error for end date before start, got nil")
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
}

func TestEventService_Delete_BlockedBySubmissions(t *testing.T) {
	repo := newTestRepository()
	eventID := uint(1)
	repo.event.events[1] = &models.Event{ID: 1, Title: "Hackathon 2024", PostedBy: 2}
	linked := pendingParticipation(1)
	linked.EventID = &eventID
	repo.participation.records[1] = linked
	service := newEventTestService(repo, &mockNotifier{})

	err := service.Delete(context.Background(), 1, 2)
	if !errors.Is(err, ErrEventHasSubmissions) {
		t.Fatalf("Expected ErrEventHasSubmissions, got %v", err)
	}
}

func TestEventService_Delete(t *testing.T) {
	repo := newTestRepository()
	repo.event.events[1] = &models.Event{ID: 1, Title: "Workshop", PostedBy: 2}
	service := newEventTestService(repo, &mockNotifier{})

	if err := service.Delete(context.Background(), 1, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := repo.event.events[1]; ok {
		t.Error("Expected event to be removed")
	}
}

func TestEventService_GetByID_NotFound(t *testing.T) {
	repo := newTestRepository()
	service := newEventTestService(repo, &mockNotifier{})

	_, err := service.GetByID(context.Background(), 42, 1)
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("Expected ErrEventNotFound, got %v", err)
	}
}
