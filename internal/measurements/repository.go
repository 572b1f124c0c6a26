package measurements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
)

// Repository exposes measurement profile persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MeasurementProfile, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.MeasurementProfile, error)
	FindDefault(ctx context.Context, userID uuid.UUID) (*models.MeasurementProfile, error)
	Create(ctx context.Context, profile *models.MeasurementProfile) (*models.MeasurementProfile, error)
	Update(ctx context.Context, profile *models.MeasurementProfile) (*models.MeasurementProfile, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ClearDefault(ctx context.Context, userID uuid.UUID, keep uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// ListByUser returns the user's profiles, default first then newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MeasurementProfile, error) {
	var rows []models.MeasurementProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads a profile scoped to its owner.
func (r *repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.MeasurementProfile, error) {
	var row models.MeasurementProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindDefault loads the user's default profile if one exists.
func (r *repository) FindDefault(ctx context.Context, userID uuid.UUID) (*models.MeasurementProfile, error) {
	var row models.MeasurementProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = TRUE", userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new profile row.
func (r *repository) Create(ctx context.Context, profile *models.MeasurementProfile) (*models.MeasurementProfile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// Update saves the full profile row.
func (r *repository) Update(ctx context.Context, profile *models.MeasurementProfile) (*models.MeasurementProfile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete removes a profile scoped to its owner.
func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.MeasurementProfile{}).Error
}

// ClearDefault unsets is_default on every profile the user owns except the
// one identified by keep.
func (r *repository) ClearDefault(ctx context.Context, userID uuid.UUID, keep uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.MeasurementProfile{}).
		Where("user_id = ? AND id <> ?", userID, keep).
		UpdateColumn("is_default", false).Error
}
