package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campustrack/participation-service/internal/models"
)

// ParticipationRepository interface for participation and proof operations
type ParticipationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, participation *models.Participation) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Participation, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Participation, error)
	Update(ctx context.Context, tx *gorm.DB, participation *models.Participation) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters ParticipationFilters) ([]*models.Participation, int64, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters ParticipationFilters) ([]*models.Participation, int64, error)

	// UpdateStatusIfPending performs a conditional review update: the row is
	// touched only while its status is still pending. Returns the number of
	// rows affected so callers can detect a lost review race.
	UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, id uint, status models.ParticipationStatus, feedback *string, reviewerID uint, reviewedAt time.Time) (int64, error)

	// Proof operations
	CreateProofs(ctx context.Context, tx *gorm.DB, proofs []*models.ParticipationProof) error
	GetProofsByParticipationIDs(ctx context.Context, tx *gorm.DB, participationIDs []uint) (map[uint][]models.ParticipationProof, error)
}
