package services

import (
	"context"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateParticipationRequest = validator.ParticipationCreateRequest
type ReviewParticipationRequest = validator.ParticipationReviewRequest
type CreateEventRequest = validator.EventCreateRequest
type UpdateEventRequest = validator.EventUpdateRequest
type CreateUserRequest = validator.UserCreateRequest
type CreateStudentRequest = validator.StudentCreateRequest
type CreateProctorRequest = validator.ProctorCreateRequest

type ParticipationResponse struct {
	*models.Participation
	CanReview bool `json:"can_review"`
}

type ParticipationListResponse struct {
	Participations []*ParticipationResponse `json:"participations"`
	Total          int64                    `json:"total"`
	Page           int                      `json:"page"`
	Size           int                      `json:"size"`
}

type EventResponse struct {
	*models.Event
	CanEdit bool `json:"can_edit"`
}

type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Size   int              `json:"size"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
}

type UserResponse struct {
	*models.User
	Student *models.Student `json:"student,omitempty"`
	Proctor *models.Proctor `json:"proctor,omitempty"`
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

type StudentListResponse struct {
	Students []*models.Student `json:"students"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

type ProctorListResponse struct {
	Proctors []*models.Proctor `json:"proctors"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

// ===== SERVICE INTERFACES =====

type ParticipationService interface {
	// Submission and retrieval
	Create(ctx context.Context, req *CreateParticipationRequest, userID uint) (*ParticipationResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*ParticipationResponse, error)
	List(ctx context.Context, filters repositories.ParticipationFilters, userID uint) (*ParticipationListResponse, error)

	// Review workflow
	Review(ctx context.Context, id uint, req *ReviewParticipationRequest, reviewerID uint) (*ParticipationResponse, error)

	// Permission checks
	CanView(ctx context.Context, participation *models.Participation, userID uint) (bool, error)
	CanReview(ctx context.Context, userID uint) (bool, error)
}

type EventService interface {
	Create(ctx context.Context, req *CreateEventRequest, creatorID uint) (*EventResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*EventResponse, error)
	Update(ctx context.Context, id uint, req *UpdateEventRequest, userID uint) (*EventResponse, error)
	Delete(ctx context.Context, id uint, userID uint) error

	List(ctx context.Context, filters repositories.EventFilters, userID uint) (*EventListResponse, error)
}

type NotificationService interface {
	// Delivery
	NotifyUser(ctx context.Context, userID uint, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) error
	NotifyRole(ctx context.Context, role models.UserRole, title, message string, notificationType models.NotificationType, metadata map[string]interface{}) error

	// Inbox
	List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error)
	MarkRead(ctx context.Context, id uint, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type AccountService interface {
	// Authentication
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// Admin account management
	CreateUser(ctx context.Context, req *CreateUserRequest, callerID uint) (*UserResponse, error)
	CreateStudentProfile(ctx context.Context, req *CreateStudentRequest, callerID uint) (*models.Student, error)
	CreateProctorProfile(ctx context.Context, req *CreateProctorRequest, callerID uint) (*models.Proctor, error)
	DeleteUser(ctx context.Context, id uint, callerID uint) error

	// Lookup
	GetUser(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters, callerID uint) (*UserListResponse, error)
	ListStudents(ctx context.Context, filters repositories.StudentFilters, callerID uint) (*StudentListResponse, error)
	ListProctors(ctx context.Context, limit, offset int, callerID uint) (*ProctorListResponse, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Participation() ParticipationService
	Event() EventService
	Notification() NotificationService
	Dashboard() DashboardService
	Account() AccountService
	Report() ReportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
