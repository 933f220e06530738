package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
)

// UserRepository interface for user account operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// List and search operations
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	ListIDsByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) ([]uint, error)

	// Validation and checks
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

// StudentRepository interface for student profile operations
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error)
	GetByUSN(ctx context.Context, tx *gorm.DB, usn string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error

	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	ExistsByUSN(ctx context.Context, tx *gorm.DB, usn string) (bool, error)
}

// ProctorRepository interface for proctor profile operations
type ProctorRepository interface {
	Create(ctx context.Context, tx *gorm.DB, proctor *models.Proctor) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Proctor, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Proctor, error)
	Update(ctx context.Context, tx *gorm.DB, proctor *models.Proctor) error

	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Proctor, int64, error)
	ExistsByEmployeeID(ctx context.Context, tx *gorm.DB, employeeID string) (bool, error)
}
