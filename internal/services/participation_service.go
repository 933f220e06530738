package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/events"
	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/validator"
)

type participationService struct {
	repo         repositories.Repository
	notification NotificationService
	publisher    events.EventPublisher
	db           *gorm.DB
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewParticipationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, notification NotificationService) ParticipationService {
	return &participationService{
		repo:         repo,
		notification: notification,
		publisher:    publisher,
		db:           db,
		logger:       logger,
		validator:    validator,
	}
}

// ===== SUBMISSION =====

func (s *participationService) Create(ctx context.Context, req *CreateParticipationRequest, userID uint) (*ParticipationResponse, error) {
	s.logger.Info("Creating participation", "user_id", userID, "event_name", req.EventName)

	// Validate request with business rules
	if errors := s.validator.GetBusinessValidator().ValidateParticipationCreate(req); len(errors) > 0 {
		return nil, errors
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, NewPermissionError(userID, 0, "participation", "create", "only students can submit participations")
	}

	// Submission requires a student profile so the record carries a USN
	student, err := s.repo.Student().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentProfileRequired
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}

	participation := &models.Participation{
		StudentID:    student.ID,
		EventID:      req.EventID,
		EventName:    req.EventName,
		Role:         req.Role,
		DurationDays: req.DurationDays,
		Achievement:  req.Achievement,
		Description:  req.Description,
		Status:       models.ParticipationPending,
		SubmittedAt:  time.Now().UTC(),
	}
	if participation.DurationDays <= 0 {
		participation.DurationDays = 1
	}

	// When the claim references a catalogued event, the catalogue entry is
	// authoritative for the denormalized title.
	if req.EventID != nil {
		event, err := s.repo.Event().GetByID(ctx, s.db, *req.EventID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to load event: %w", err)
		}
		participation.EventName = event.Title
	}

	uploadedAt := time.Now().UTC()
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Participation().Create(ctx, nil, participation); err != nil {
			return fmt.Errorf("failed to create participation: %w", err)
		}

		proofs := make([]*models.ParticipationProof, 0, len(req.Proofs))
		for _, p := range req.Proofs {
			proofs = append(proofs, &models.ParticipationProof{
				ParticipationID: participation.ID,
				FileName:        p.FileName,
				FileURL:         p.FileURL,
				FileType:        p.FileType,
				FileSize:        p.FileSize,
				UploadedAt:      uploadedAt,
			})
		}
		if err := txRepo.Participation().CreateProofs(ctx, nil, proofs); err != nil {
			return fmt.Errorf("failed to create proofs: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Participation created successfully", "participation_id", participation.ID, "student_id", student.ID)

	s.publishSubmitted(ctx, participation)
	s.notifyAssignedProctor(ctx, participation, student, user)

	return s.GetByID(ctx, participation.ID, userID)
}

// ===== RETRIEVAL =====

func (s *participationService) GetByID(ctx context.Context, id uint, userID uint) (*ParticipationResponse, error) {
	participation, err := s.repo.Participation().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}

	canView, err := s.CanView(ctx, participation, userID)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, NewPermissionError(userID, id, "participation", "read", "not owner or insufficient permissions")
	}

	canReview, err := s.CanReview(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(participation, canReview), nil
}

func (s *participationService) List(ctx context.Context, filters repositories.ParticipationFilters, userID uint) (*ParticipationListResponse, error) {
	scope, err := s.resolveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Students only ever see their own submissions, whatever the filters say
	if !scope.SeesAll() {
		if scope.student == nil {
			// No profile means no submissions
			return &ParticipationListResponse{
				Participations: []*ParticipationResponse{},
				Page:           pageFromOffset(filters.Limit, filters.Offset),
				Size:           filters.Limit,
			}, nil
		}
		filters.StudentID = &scope.student.ID
	}

	participations, total, err := s.repo.Participation().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	responses := make([]*ParticipationResponse, 0, len(participations))
	for _, p := range participations {
		responses = append(responses, s.toResponse(p, scope.SeesAll()))
	}

	return &ParticipationListResponse{
		Participations: responses,
		Total:          total,
		Page:           pageFromOffset(filters.Limit, filters.Offset),
		Size:           filters.Limit,
	}, nil
}

// ===== REVIEW =====

func (s *participationService) Review(ctx context.Context, id uint, req *ReviewParticipationRequest, reviewerID uint) (*ParticipationResponse, error) {
	s.logger.Info("Reviewing participation", "participation_id", id, "reviewer_id", reviewerID, "status", req.Status)

	if errors := s.validator.GetBusinessValidator().ValidateReview(req); len(errors) > 0 {
		return nil, errors
	}

	canReview, err := s.CanReview(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !canReview {
		return nil, NewPermissionError(reviewerID, id, "participation", "review", "insufficient role permissions")
	}

	participation, err := s.repo.Participation().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}

	if errors := s.validator.GetBusinessValidator().ValidateStatusTransition(participation.Status, req.Status); len(errors) > 0 {
		return nil, ErrParticipationAlreadyReviewed
	}

	reviewedAt := time.Now().UTC()

	// Conditional update: only a still-pending row is touched, so two
	// concurrent reviews cannot both win.
	rows, err := s.repo.Participation().UpdateStatusIfPending(ctx, s.db, id, req.Status, req.Feedback, reviewerID, reviewedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update participation status: %w", err)
	}
	if rows == 0 {
		return nil, ErrParticipationAlreadyReviewed
	}

	reviewed, err := s.repo.Participation().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload participation: %w", err)
	}

	s.logger.Info("Participation reviewed", "participation_id", id, "status", reviewed.Status)

	s.publishReviewed(ctx, reviewed)
	s.notifyStudentOfReview(ctx, reviewed)

	return s.toResponse(reviewed, true), nil
}

// ===== PERMISSION CHECKS =====

func (s *participationService) CanView(ctx context.Context, participation *models.Participation, userID uint) (bool, error) {
	scope, err := s.resolveScope(ctx, userID)
	if err != nil {
		return false, err
	}
	return scope.Allows(participation), nil
}

func (s *participationService) CanReview(ctx context.Context, userID uint) (bool, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleProctor || user.Role == models.RoleAdmin, nil
}
