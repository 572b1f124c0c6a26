package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
)

// Service exposes the catalog read paths plus the admin write paths.
type Service interface {
	ListItems(ctx context.Context, in ListItemsInput) (*ListItemsOutput, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	CreateItem(ctx context.Context, in UpsertItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in UpsertItemInput) (*ItemDTO, error)
	DeactivateItem(ctx context.Context, id uuid.UUID) error
	ListFabrics(ctx context.Context, includeInactive bool) ([]FabricDTO, error)
	CreateFabric(ctx context.Context, label string) (*FabricDTO, error)
	SetFabricActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListItems(ctx context.Context, in ListItemsInput) (*ListItemsOutput, error) {
	rows, err := s.repo.ListItems(ctx, in)
	if err != nil {
		s.logg.Error(ctx, "catalog list failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog temporarily unavailable")
	}

	limit := pagination.NormalizeLimit(in.Pagination.Limit)
	out := &ListItemsOutput{Items: make([]ItemDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			out.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		out.Items = append(out.Items, itemFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		s.logg.Error(ctx, "catalog fetch failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog temporarily unavailable")
	}
	dto := itemFromModel(item)
	return &dto, nil
}

func (s *service) CreateItem(ctx context.Context, in UpsertItemInput) (*ItemDTO, error) {
	if in.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	item, err := s.repo.CreateItem(ctx, &models.Item{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		BasePrice:   in.BasePrice,
		Images:      nonNilStrings(in.Images),
		FabricTypes: nonNilStrings(in.FabricTypes),
		IsActive:    isActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	dto := itemFromModel(item)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, in UpsertItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if in.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Category = strings.TrimSpace(in.Category)
	item.BasePrice = in.BasePrice
	item.Images = nonNilStrings(in.Images)
	item.FabricTypes = nonNilStrings(in.FabricTypes)
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	dto := itemFromModel(updated)
	return &dto, nil
}

func (s *service) DeactivateItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate item")
	}
	return nil
}

func (s *service) ListFabrics(ctx context.Context, includeInactive bool) ([]FabricDTO, error) {
	rows, err := s.repo.ListFabrics(ctx, includeInactive)
	if err != nil {
		s.logg.Error(ctx, "fabric list failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog temporarily unavailable")
	}
	out := make([]FabricDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fabricFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateFabric(ctx context.Context, label string) (*FabricDTO, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fabric label is required")
	}
	fabric, err := s.repo.CreateFabric(ctx, &models.Fabric{Label: trimmed, IsActive: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create fabric")
	}
	dto := fabricFromModel(fabric)
	return &dto, nil
}

func (s *service) SetFabricActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetFabricActive(ctx, id, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update fabric")
	}
	return nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
