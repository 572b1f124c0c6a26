package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/internal/catalog"
	"github.com/sewnstudio/atelier-backend/internal/measurements"
	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
)

// Service exposes the cart operations. Carts exist for guests and customers
// alike; only checkout is gated elsewhere.
type Service interface {
	Get(ctx context.Context, identity pkgAuth.Identity) (*CartDTO, error)
	AddItem(ctx context.Context, identity pkgAuth.Identity, in AddItemInput) (*CartDTO, error)
	RemoveLine(ctx context.Context, identity pkgAuth.Identity, index int) (*CartDTO, error)
	SetQuantity(ctx context.Context, identity pkgAuth.Identity, in SetQuantityInput) (*CartDTO, error)
	Clear(ctx context.Context, identity pkgAuth.Identity) (*CartDTO, error)
}

type catalogReader interface {
	GetItem(ctx context.Context, id uuid.UUID) (*catalog.ItemDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileResolver interface {
	GetDefault(ctx context.Context, identity pkgAuth.Identity) (*measurements.ProfileDTO, error)
	Resolve(ctx context.Context, userID uuid.UUID, ref string) (*measurements.ProfileDTO, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	catalog  catalogReader
	profiles profileResolver
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Tx       txRunner
	Repo     Repository
	Catalog  catalogReader
	Profiles profileResolver
	Logger   *logger.Logger
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile resolver is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		catalog:  params.Catalog,
		profiles: params.Profiles,
		logg:     params.Logger,
	}, nil
}

func (s *service) Get(ctx context.Context, identity pkgAuth.Identity) (*CartDTO, error) {
	record, err := s.loadOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	return cartDTO(record, NewAggregate(record.Lines)), nil
}

// AddItem snapshots the item at its current catalog price, resolves the
// measurement reference, and merges the composed line into the aggregate.
func (s *service) AddItem(ctx context.Context, identity pkgAuth.Identity, in AddItemInput) (*CartDTO, error) {
	item, err := s.catalog.GetItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is no longer available")
	}

	ref, name, err := s.resolveMeasurement(ctx, identity, in.MeasurementRef)
	if err != nil {
		return nil, err
	}

	provision := enums.MaterialProvisionShop
	if in.MaterialByShopper {
		provision = enums.MaterialProvisionCustomer
	}

	line := BuildLine(LineSpec{
		Item: &models.Item{
			ID:        item.ID,
			Name:      item.Name,
			BasePrice: item.BasePrice,
			Images:    item.Images,
		},
		MeasurementRef:    ref,
		MeasurementName:   name,
		FabricType:        in.FabricType,
		MaterialProvision: provision,
		Quantity:          in.Quantity,
	})

	return s.mutate(ctx, identity, func(agg *Aggregate) {
		agg.Add(line)
	})
}

func (s *service) RemoveLine(ctx context.Context, identity pkgAuth.Identity, index int) (*CartDTO, error) {
	return s.mutate(ctx, identity, func(agg *Aggregate) {
		agg.Remove(index)
	})
}

func (s *service) SetQuantity(ctx context.Context, identity pkgAuth.Identity, in SetQuantityInput) (*CartDTO, error) {
	return s.mutate(ctx, identity, func(agg *Aggregate) {
		agg.SetQuantity(in.Index, in.Quantity)
	})
}

func (s *service) Clear(ctx context.Context, identity pkgAuth.Identity) (*CartDTO, error) {
	return s.mutate(ctx, identity, func(agg *Aggregate) {
		agg.Clear()
	})
}

func (s *service) mutate(ctx context.Context, identity pkgAuth.Identity, fn func(agg *Aggregate)) (*CartDTO, error) {
	var out *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindActiveByUser(ctx, identity.UserID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record, err = repo.CreateActive(ctx, identity.UserID)
			if err != nil {
				return err
			}
		}

		agg := NewAggregate(record.Lines)
		fn(agg)

		lines := agg.Lines()
		if err := repo.ReplaceLines(ctx, record.ID, lines); err != nil {
			return err
		}
		record.Lines = lines
		out = cartDTO(record, agg)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart")
	}
	return out, nil
}

func (s *service) loadOrCreate(ctx context.Context, identity pkgAuth.Identity) (*models.CartRecord, error) {
	record, err := s.repo.FindActiveByUser(ctx, identity.UserID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	record, err = s.repo.CreateActive(ctx, identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return record, nil
}

// resolveMeasurement maps the sentinel to the shopper's default profile when
// one exists; shoppers with no saved profiles (guests included) fall back to
// a plain default label. Real profile references must resolve.
func (s *service) resolveMeasurement(ctx context.Context, identity pkgAuth.Identity, ref string) (string, string, error) {
	if ref == measurements.DefaultProfileRef {
		profile, err := s.profiles.GetDefault(ctx, identity)
		if err != nil {
			if domainErr := pkgerrors.As(err); domainErr != nil && domainErr.Code() == pkgerrors.CodeNotFound {
				return measurements.DefaultProfileRef, "Default", nil
			}
			return "", "", err
		}
		return measurements.DefaultProfileRef, profile.Name, nil
	}

	profile, err := s.profiles.Resolve(ctx, identity.UserID, ref)
	if err != nil {
		return "", "", err
	}
	return profile.ID.String(), profile.Name, nil
}
