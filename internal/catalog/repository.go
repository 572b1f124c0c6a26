package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
)

// Repository wires together item and fabric persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context, in ListItemsInput) ([]models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	DeactivateItem(ctx context.Context, id uuid.UUID) error
	ListFabrics(ctx context.Context, includeInactive bool) ([]models.Fabric, error)
	FindFabricByLabel(ctx context.Context, label string) (*models.Fabric, error)
	CreateFabric(ctx context.Context, fabric *models.Fabric) (*models.Fabric, error)
	SetFabricActive(ctx context.Context, id uuid.UUID, active bool) error
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

// FindItemByID loads the item without filtering on active state.
func (r *repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns one page of items ordered by creation time, newest first.
func (r *repository) ListItems(ctx context.Context, in ListItemsInput) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})
	if !in.IncludeInactive {
		q = q.Where("is_active = TRUE")
	}
	if in.Filters.Category != nil && strings.TrimSpace(*in.Filters.Category) != "" {
		q = q.Where("category = ?", strings.TrimSpace(*in.Filters.Category))
	}
	if term := strings.TrimSpace(in.Filters.Query); term != "" {
		q = q.Where("name ILIKE ?", "%"+term+"%")
	}

	cursor, err := pagination.ParseCursor(in.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.Item
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(in.Pagination.Limit)).
		Find(&items).Error
	return items, err
}

// CreateItem inserts a new listing row.
func (r *repository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem saves the full listing row.
func (r *repository) UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem hides the listing from the storefront without deleting it.
func (r *repository) DeactivateItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		UpdateColumn("is_active", false).Error
}

// ListFabrics returns fabric types, optionally including inactive ones.
func (r *repository) ListFabrics(ctx context.Context, includeInactive bool) ([]models.Fabric, error) {
	q := r.db.WithContext(ctx).Model(&models.Fabric{})
	if !includeInactive {
		q = q.Where("is_active = TRUE")
	}
	var fabrics []models.Fabric
	err := q.Order("label ASC").Find(&fabrics).Error
	return fabrics, err
}

// FindFabricByLabel loads a fabric by its unique label.
func (r *repository) FindFabricByLabel(ctx context.Context, label string) (*models.Fabric, error) {
	var fabric models.Fabric
	if err := r.db.WithContext(ctx).Where("label = ?", label).First(&fabric).Error; err != nil {
		return nil, err
	}
	return &fabric, nil
}

// CreateFabric inserts a new fabric row.
func (r *repository) CreateFabric(ctx context.Context, fabric *models.Fabric) (*models.Fabric, error) {
	if err := r.db.WithContext(ctx).Create(fabric).Error; err != nil {
		return nil, err
	}
	return fabric, nil
}

// SetFabricActive toggles the fabric's availability.
func (r *repository) SetFabricActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Fabric{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}
