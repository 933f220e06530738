package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/validator"
)

type accountService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAccountService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) AccountService {
	return &accountService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== AUTHENTICATION =====

func (s *accountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, s.db, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same failure mode as a wrong password so usernames cannot
			// be probed.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Deactivated accounts keep their rows but cannot sign in.
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ===== ADMIN ACCOUNT MANAGEMENT =====

func (s *accountService) CreateUser(ctx context.Context, req *CreateUserRequest, callerID uint) (*UserResponse, error) {
	s.logger.Info("Creating user", "caller_id", callerID, "username", req.Username, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireAdmin(ctx, callerID, "user", "create"); err != nil {
		return nil, err
	}

	taken, err := s.repo.User().ExistsByUsername(ctx, s.db, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.User().ExistsByEmail(ctx, s.db, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Password:  string(hash),
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
	}

	if err := s.repo.User().Create(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created successfully", "user_id", user.ID, "role", user.Role)

	return &UserResponse{User: user}, nil
}

func (s *accountService) CreateStudentProfile(ctx context.Context, req *CreateStudentRequest, callerID uint) (*models.Student, error) {
	s.logger.Info("Creating student profile", "caller_id", callerID, "user_id", req.UserID, "usn", req.USN)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireAdmin(ctx, callerID, "student", "create"); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, s.db, req.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role != models.RoleStudent {
		return nil, ErrRoleProfileMismatch
	}

	taken, err := s.repo.Student().ExistsByUSN(ctx, s.db, req.USN)
	if err != nil {
		return nil, fmt.Errorf("failed to check usn: %w", err)
	}
	if taken {
		return nil, ErrUSNTaken
	}

	if req.ProctorID != nil {
		if _, err := s.repo.Proctor().GetByID(ctx, s.db, *req.ProctorID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProctorNotFound
			}
			return nil, fmt.Errorf("failed to check proctor assignment: %w", err)
		}
	}

	student := &models.Student{
		UserID:          req.UserID,
		USN:             req.USN,
		Department:      req.Department,
		Year:            req.Year,
		Semester:        req.Semester,
		Batch:           req.Batch,
		ProctorID:       req.ProctorID,
		ProfilePhotoURL: req.ProfilePhotoURL,
	}

	if err := s.repo.Student().Create(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to create student profile: %w", err)
	}

	student.User = *user
	return student, nil
}

func (s *accountService) CreateProctorProfile(ctx context.Context, req *CreateProctorRequest, callerID uint) (*models.Proctor, error) {
	s.logger.Info("Creating proctor profile", "caller_id", callerID, "user_id", req.UserID, "employee_id", req.EmployeeID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireAdmin(ctx, callerID, "proctor", "create"); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, s.db, req.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role != models.RoleProctor {
		return nil, ErrRoleProfileMismatch
	}

	taken, err := s.repo.Proctor().ExistsByEmployeeID(ctx, s.db, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee id: %w", err)
	}
	if taken {
		return nil, ErrEmployeeIDTaken
	}

	proctor := &models.Proctor{
		UserID:      req.UserID,
		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		Designation: req.Designation,
	}

	if err := s.repo.Proctor().Create(ctx, s.db, proctor); err != nil {
		return nil, fmt.Errorf("failed to create proctor profile: %w", err)
	}

	proctor.User = *user
	return proctor, nil
}

func (s *accountService) DeleteUser(ctx context.Context, id uint, callerID uint) error {
	s.logger.Info("Deleting user", "user_id", id, "caller_id", callerID)

	if err := s.requireAdmin(ctx, callerID, "user", "delete"); err != nil {
		return err
	}

	if id == callerID {
		return NewBusinessRuleError("self_delete", "administrators cannot delete their own account", map[string]interface{}{
			"user_id": id,
		})
	}

	if _, err := s.repo.User().GetByID(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.repo.User().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ===== LOOKUP =====

func (s *accountService) GetUser(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response := &UserResponse{User: user}

	switch user.Role {
	case models.RoleStudent:
		student, err := s.repo.Student().GetByUserID(ctx, s.db, id)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get student profile: %w", err)
		}
		response.Student = student
	case models.RoleProctor:
		proctor, err := s.repo.Proctor().GetByUserID(ctx, s.db, id)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get proctor profile: %w", err)
		}
		response.Proctor = proctor
	}

	return response, nil
}

func (s *accountService) ListUsers(ctx context.Context, filters repositories.UserFilters, callerID uint) (*UserListResponse, error) {
	if err := s.requireAdmin(ctx, callerID, "user", "list"); err != nil {
		return nil, err
	}

	users, total, err := s.repo.User().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, &UserResponse{User: user})
	}

	return &UserListResponse{
		Users: responses,
		Total: total,
		Page:  pageFromOffset(filters.Limit, filters.Offset),
		Size:  filters.Limit,
	}, nil
}

func (s *accountService) ListStudents(ctx context.Context, filters repositories.StudentFilters, callerID uint) (*StudentListResponse, error) {
	if err := s.requireReviewer(ctx, callerID, "student", "list"); err != nil {
		return nil, err
	}

	students, total, err := s.repo.Student().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return &StudentListResponse{
		Students: students,
		Total:    total,
		Page:     pageFromOffset(filters.Limit, filters.Offset),
		Size:     filters.Limit,
	}, nil
}

func (s *accountService) ListProctors(ctx context.Context, limit, offset int, callerID uint) (*ProctorListResponse, error) {
	if err := s.requireAdmin(ctx, callerID, "proctor", "list"); err != nil {
		return nil, err
	}

	proctors, total, err := s.repo.Proctor().List(ctx, s.db, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list proctors: %w", err)
	}

	return &ProctorListResponse{
		Proctors: proctors,
		Total:    total,
		Page:     pageFromOffset(limit, offset),
		Size:     limit,
	}, nil
}

// ===== PERMISSION HELPERS =====

func (s *accountService) callerRole(ctx context.Context, callerID uint) (models.UserRole, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, callerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get caller: %w", err)
	}
	return user.Role, nil
}

func (s *accountService) requireAdmin(ctx context.Context, callerID uint, resource, action string) error {
	role, err := s.callerRole(ctx, callerID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return NewPermissionError(callerID, 0, resource, action, "admin role required")
	}
	return nil
}

func (s *accountService) requireReviewer(ctx context.Context, callerID uint, resource, action string) error {
	role, err := s.callerRole(ctx, callerID)
	if err != nil {
		return err
	}
	if role != models.RoleProctor && role != models.RoleAdmin {
		return NewPermissionError(callerID, 0, resource, action, "proctor or admin role required")
	}
	return nil
}
