package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
)

// Repository defines cart persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	CreateActive(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error
	MarkConverted(ctx context.Context, cartID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindActiveByUser loads the user's active cart with lines in position order.
func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateActive inserts a fresh empty active cart for the user.
func (r *repository) CreateActive(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	record := &models.CartRecord{
		UserID: userID,
		Status: enums.CartStatusActive,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	record.Lines = []models.CartLine{}
	return record, nil
}

// ReplaceLines swaps the cart's line rows for the given ordered set. Line IDs
// are reset so rows are re-inserted rather than updated.
func (r *repository) ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].CartID = cartID
		lines[i].Position = i
	}
	return tx.Create(&lines).Error
}

// MarkConverted flips the cart out of the active state after checkout.
func (r *repository) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		UpdateColumn("status", enums.CartStatusConverted).Error
}
