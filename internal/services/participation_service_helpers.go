package services

import (
	"context"
	"fmt"

	"github.com/campustrack/participation-service/internal/events"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
)

// ===== RESPONSE BUILDING =====

func (s *participationService) toResponse(participation *models.Participation, canReview bool) *ParticipationResponse {
	return &ParticipationResponse{
		Participation: participation,
		CanReview:     canReview && participation.Status == models.ParticipationPending,
	}
}

// pageFromOffset derives a 1-based page number for list responses.
func pageFromOffset(limit, offset int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}

// ===== LOOKUPS =====

func (s *participationService) getUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ===== ACCESS SCOPE =====

// reviewScope is the single ownership policy shared by the list and detail
// paths: proctors and admins see every record, students only their own.
type reviewScope struct {
	user    *models.User
	student *models.Student // nil when the acting student has no profile
}

func (s *participationService) resolveScope(ctx context.Context, userID uint) (*reviewScope, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	scope := &reviewScope{user: user}
	if user.Role == models.RoleStudent {
		student, err := s.repo.Student().GetByUserID(ctx, s.db, userID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		if err == nil {
			scope.student = student
		}
	}
	return scope, nil
}

func (sc *reviewScope) SeesAll() bool {
	return sc.user.Role == models.RoleProctor || sc.user.Role == models.RoleAdmin
}

// Allows reports whether the scope may read the given record.
func (sc *reviewScope) Allows(p *models.Participation) bool {
	if sc.SeesAll() {
		return true
	}
	return sc.student != nil && p.StudentID == sc.student.ID
}

// ===== EVENT PUBLISHING =====

// publishSubmitted emits the submission event. Delivery is best-effort: a
// broker outage must not fail the submission itself.
func (s *participationService) publishSubmitted(ctx context.Context, participation *models.Participation) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.TypeParticipationSubmitted, events.ParticipationSubmittedEvent{
		ParticipationID: participation.ID,
		StudentID:       participation.StudentID,
		EventName:       participation.EventName,
		Role:            participation.Role,
		SubmittedAt:     participation.SubmittedAt,
	})
	if err := s.publisher.Publish(ctx, events.TopicParticipations, event); err != nil {
		s.logger.Warn("Failed to publish participation submitted event", "participation_id", participation.ID, "error", err)
	}
}

func (s *participationService) publishReviewed(ctx context.Context, participation *models.Participation) {
	if s.publisher == nil || participation.ReviewedBy == nil || participation.ReviewedAt == nil {
		return
	}

	event := events.NewEvent(events.TypeParticipationReviewed, events.ParticipationReviewedEvent{
		ParticipationID: participation.ID,
		StudentID:       participation.StudentID,
		Status:          string(participation.Status),
		ReviewedBy:      *participation.ReviewedBy,
		ReviewedAt:      *participation.ReviewedAt,
	})
	if err := s.publisher.Publish(ctx, events.TopicParticipations, event); err != nil {
		s.logger.Warn("Failed to publish participation reviewed event", "participation_id", participation.ID, "error", err)
	}
}

// ===== NOTIFICATIONS =====

// notifyAssignedProctor routes the submission notice to the student's assigned
// proctor. Unassigned students produce no notice; that is a soft guarantee,
// not an error.
func (s *participationService) notifyAssignedProctor(ctx context.Context, participation *models.Participation, student *models.Student, submitter *models.User) {
	if s.notification == nil || student.ProctorID == nil {
		return
	}

	proctor, err := s.repo.Proctor().GetByID(ctx, s.db, *student.ProctorID)
	if err != nil {
		s.logger.Warn("Failed to resolve assigned proctor", "student_id", student.ID, "proctor_id", *student.ProctorID, "error", err)
		return
	}

	title := "New participation submitted"
	message := fmt.Sprintf("%s submitted a participation for %q and it is waiting for review.", submitter.FullName(), participation.EventName)
	metadata := map[string]interface{}{
		"participation_id": participation.ID,
		"event_name":       participation.EventName,
	}
	if err := s.notification.NotifyUser(ctx, proctor.UserID, title, message, models.NotificationSubmission, metadata); err != nil {
		s.logger.Warn("Failed to notify assigned proctor", "participation_id", participation.ID, "error", err)
	}
}

func (s *participationService) notifyStudentOfReview(ctx context.Context, participation *models.Participation) {
	if s.notification == nil {
		return
	}

	var title, message string
	switch participation.Status {
	case models.ParticipationApproved:
		title = "Participation approved"
		message = fmt.Sprintf("Your participation in %q has been approved.", participation.EventName)
	case models.ParticipationRejected:
		title = "Participation rejected"
		message = fmt.Sprintf("Your participation in %q was rejected.", participation.EventName)
		if participation.ProctorFeedback != nil {
			message = fmt.Sprintf("%s Feedback: %s", message, *participation.ProctorFeedback)
		}
	default:
		return
	}

	metadata := map[string]interface{}{
		"participation_id": participation.ID,
		"status":           string(participation.Status),
	}
	if err := s.notification.NotifyUser(ctx, participation.Student.UserID, title, message, models.NotificationSubmission, metadata); err != nil {
		s.logger.Warn("Failed to notify student of review", "participation_id", participation.ID, "error", err)
	}
}
