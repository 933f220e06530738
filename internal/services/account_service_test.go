package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/validator"
)

func newAccountTestService(repo *mockRepository) *accountService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &accountService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	repo := newTestRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	repo.user.users[1].Password = string(hash)
	service := newAccountTestService(repo)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user, err := service.Authenticate(ctx, "student", "student123")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.ID != 1 {
			t.Errorf("Expected user 1, got %d", user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "student", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "nobody", "student123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Expected ErrInvalidCredentials for unknown user, got %v", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		repo.user.users[1].IsActive = false
		defer func() { repo.user.users[1].IsActive = true }()
		_, err := service.Authenticate(ctx, "student", "student123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Expected ErrInvalidCredentials for deactivated account, got %v", err)
		}
	})
}

func TestAccountService_CreateUser(t *testing.T) {
	repo := newTestRepository()
	service := newAccountTestService(repo)
	ctx := context.Background()

	req := &CreateUserRequest{
		Username:  "newstudent",
		Password:  "secret-password",
		Role:      models.RoleStudent,
		FirstName: "New",
		LastName:  "Student",
		Email:     "new@campus.edu",
	}

	t.Run("admin can create", func(t *testing.T) {
		response, err := service.CreateUser(ctx, req, 3)
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if response.User.ID == 0 {
			t.Error("Expected created user to have an id")
		}
		if response.User.Password == req.Password {
			t.Error("Password must be stored hashed")
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := *req
		dup.Email = "other@campus.edu"
		_, err := service.CreateUser(ctx, &dup, 3)
		if !errors.Is(err, ErrUsernameTaken) {
			t.Fatalf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("proctor cannot create", func(t *testing.T) {
		other := *req
		other.Username = "another"
		other.Email = "another@campus.edu"
		_, err := service.CreateUser(ctx, &other, 2)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
	})
}

func TestAccountService_CreateStudentProfile(t *testing.T) {
	repo := newTestRepository()
	repo.user.users[5] = &models.User{ID: 5, Username: "fresh", Role: models.RoleStudent, FirstName: "Fresh", LastName: "Student", IsActive: true}
	service := newAccountTestService(repo)
	ctx := context.Background()

	t.Run("role mismatch", func(t *testing.T) {
		req := &CreateStudentRequest{UserID: 2, USN: "1CR18CS099", Department: "Computer Science", Year: 2, Semester: 3}
		_, err := service.CreateStudentProfile(ctx, req, 3)
		if !errors.Is(err, ErrRoleProfileMismatch) {
			t.Fatalf("Expected ErrRoleProfileMismatch for proctor account, got %v", err)
		}
	})

	t.Run("usn taken", func(t *testing.T) {
		req := &CreateStudentRequest{UserID: 5, USN: "1CR18CS001", Department: "Computer Science", Year: 2, Semester: 3}
		_, err := service.CreateStudentProfile(ctx, req, 3)
		if !errors.Is(err, ErrUSNTaken) {
			t.Fatalf("Expected ErrUSNTaken, got %v", err)
		}
	})

	t.Run("unknown proctor", func(t *testing.T) {
		badProctor := uint(404)
		req := &CreateStudentRequest{UserID: 5, USN: "1CR18CS099", Department: "Computer Science", Year: 2, Semester: 3, ProctorID: &badProctor}
		_, err := service.CreateStudentProfile(ctx, req, 3)
		if !errors.Is(err, ErrProctorNotFound) {
			t.Fatalf("Expected ErrProctorNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		proctorID := uint(20)
		req := &CreateStudentRequest{UserID: 5, USN: "1CR18CS099", Department: "Computer Science", Year: 2, Semester: 3, ProctorID: &proctorID}
		student, err := service.CreateStudentProfile(ctx, req, 3)
		if err != nil {
			t.Fatalf("CreateStudentProfile failed: %v", err)
		}
		if student.USN != "1CR18CS099" {
			t.Errorf("Expected USN to be stored, got %q", student.USN)
		}
		if student.ProctorID == nil || *student.ProctorID != 20 {
			t.Error("Expected proctor assignment to be stored")
		}
	})
}

func TestAccountService_DeleteUser(t *testing.T) {
	repo := newTestRepository()
	service := newAccountTestService(repo)
	ctx := context.Background()

	t.Run("self delete blocked", func(t *testing.T) {
		err := service.DeleteUser(ctx, 3, 3)
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) {
			t.Fatalf("Expected BusinessRuleError, got %v", err)
		}
		if ruleErr.Rule != "self_delete" {
			t.Errorf("Expected rule 'self_delete', got %q", ruleErr.Rule)
		}
	})

	t.Run("success", func(t *testing.T) {
		if err := service.DeleteUser(ctx, 1, 3); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, ok := repo.user.users[1]; ok {
			t.Error("Expected user to be removed")
		}
	})

	t.Run("not found", func(t *testing.T) {
		err := service.DeleteUser(ctx, 404, 3)
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAccountService_GetUser_AttachesProfile(t *testing.T) {
	repo := newTestRepository()
	service := newAccountTestService(repo)

	response, err := service.GetUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if response.Student == nil {
		t.Fatal("Expected student profile to be attached")
	}
	if response.Student.USN != "1CR18CS001" {
		t.Errorf("Expected USN 1CR18CS001, got %q", response.Student.USN)
	}

	response, err = service.GetUser(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if response.Proctor == nil {
		t.Fatal("Expected proctor profile to be attached")
	}
}

func TestAccountService_ListStudents_RequiresReviewer(t *testing.T) {
	repo := newTestRepository()
	service := newAccountTestService(repo)

	_, err := service.ListStudents(context.Background(), repositories.StudentFilters{Limit: 20}, 1)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Expected PermissionError for student caller, got %v", err)
	}

	if _, err := service.ListStudents(context.Background(), repositories.StudentFilters{Limit: 20}, 2); err != nil {
		t.Fatalf("ListStudents by proctor failed: %v", err)
	}
}
