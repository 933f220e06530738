package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campustrack/participation-service/internal/models"
)

// Validator wraps go-playground/validator with domain tags registered.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered
func New() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// GetBusinessValidator returns a business validator backed by this validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validator: v}
}

// Validate validates a struct and returns ValidationErrors (or nil)
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts validator library errors to ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	for _, fieldErr := range validationErrs {
		errors = append(errors, ValidationError{
			Field:   toSnakeCase(fieldErr.Field()),
			Message: errorMessage(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}

	return errors
}

func registerCustomValidators(validate *validator.Validate) {
	// Event category must be one of the catalogue categories
	validate.RegisterValidation("event_category", func(fl validator.FieldLevel) bool {
		return models.EventCategory(fl.Field().String()).Valid()
	})

	// Review status: only terminal statuses may be requested by a reviewer
	validate.RegisterValidation("review_status", func(fl validator.FieldLevel) bool {
		return models.TerminalReviewStatus(models.ParticipationStatus(fl.Field().String()))
	})

	// User role validation
	validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	// Event title validation (1-200 characters after trimming)
	validate.RegisterValidation("event_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})
}

// errorMessage returns user-friendly error messages
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "event_category":
		return "must be a valid event category"
	case "review_status":
		return "must be approved or rejected"
	case "user_role":
		return "must be a valid user role"
	case "event_title":
		return "must be between 1 and 200 characters"
	case "required_without":
		return fmt.Sprintf("is required when %s is absent", toSnakeCase(err.Param()))
	case "gtfield":
		return fmt.Sprintf("must be after %s", toSnakeCase(err.Param()))
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
