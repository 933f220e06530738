package validator

import (
	"strings"

	"github.com/campustrack/participation-service/internal/models"
)

// BusinessValidator handles rule validation that goes beyond struct tags
type BusinessValidator struct {
	validator *Validator
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validator: New()}
}

// ValidateParticipationCreate validates a submission against business rules
func (bv *BusinessValidator) ValidateParticipationCreate(req *ParticipationCreateRequest) ValidationErrors {
	var errors ValidationErrors

	if err := bv.validator.Validate(req); err != nil {
		if verrs, ok := err.(ValidationErrors); ok {
			errors = append(errors, verrs...)
		}
	}

	// Proof file names must not be blank after trimming
	for i, proof := range req.Proofs {
		if strings.TrimSpace(proof.FileName) == "" {
			errors = append(errors, ValidationError{
				Field:   "proofs",
				Message: "file name cannot be blank",
				Value:   i,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateReview validates a review decision. Rejections must carry feedback
// so the student knows what to fix before resubmitting.
func (bv *BusinessValidator) ValidateReview(req *ParticipationReviewRequest) ValidationErrors {
	var errors ValidationErrors

	if err := bv.validator.Validate(req); err != nil {
		if verrs, ok := err.(ValidationErrors); ok {
			errors = append(errors, verrs...)
		}
	}

	if req.Status == models.ParticipationRejected {
		if req.Feedback == nil || strings.TrimSpace(*req.Feedback) == "" {
			errors = append(errors, ValidationError{
				Field:   "feedback",
				Message: "is required when rejecting a participation",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateStatusTransition validates the review state machine: a record leaves
// pending exactly once and never returns.
func (bv *BusinessValidator) ValidateStatusTransition(current, next models.ParticipationStatus) ValidationErrors {
	var errors ValidationErrors

	if current != models.ParticipationPending {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "participation has already been reviewed",
			Value:   current,
			Rule:    "status_transition",
		})
		return errors
	}

	if !models.TerminalReviewStatus(next) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "must be approved or rejected",
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}
