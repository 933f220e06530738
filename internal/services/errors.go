package services

import (
	"errors"
	"fmt"

	"github.com/campustrack/participation-service/internal/validator"
)

// ValidationErrors re-exported so handlers can errors.As against the
// services package alone.
type ValidationErrors = validator.ValidationErrors

// ===== SENTINEL ERRORS =====

var (
	// Participation errors
	ErrParticipationNotFound        = errors.New("participation not found")
	ErrParticipationAlreadyReviewed = errors.New("participation has already been reviewed")

	// Event errors
	ErrEventNotFound       = errors.New("event not found")
	ErrEventDuplicate      = errors.New("an event with this name and start date already exists")
	ErrEventHasSubmissions = errors.New("event cannot be deleted - has linked participations")

	// Account errors
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrEmailTaken             = errors.New("email is already registered")
	ErrStudentNotFound        = errors.New("student profile not found")
	ErrStudentProfileRequired = errors.New("student profile required before submitting participations")
	ErrUSNTaken               = errors.New("usn is already registered")
	ErrProctorNotFound        = errors.New("proctor profile not found")
	ErrEmployeeIDTaken        = errors.New("employee id is already registered")
	ErrRoleProfileMismatch    = errors.New("profile role does not match user role")
	ErrInvalidCredentials     = errors.New("invalid username or password")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
)

// ===== TYPED ERRORS =====

// PermissionError carries who tried to do what to which resource.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError signals a request that is well-formed but violates a
// domain rule.
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation [%s]: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}
