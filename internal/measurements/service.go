package measurements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
)

// Service exposes measurement profile operations. Writes are gated on the
// caller not being a guest; reads only require ownership.
type Service interface {
	List(ctx context.Context, identity pkgAuth.Identity) ([]ProfileDTO, error)
	Get(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID) (*ProfileDTO, error)
	GetDefault(ctx context.Context, identity pkgAuth.Identity) (*ProfileDTO, error)
	Create(ctx context.Context, identity pkgAuth.Identity, in UpsertProfileInput) (*ProfileDTO, error)
	Update(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID, in UpdateProfileInput) (*ProfileDTO, error)
	Delete(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID) error
	Resolve(ctx context.Context, userID uuid.UUID, ref string) (*ProfileDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx   txRunner
	repo Repository
	cfg  config.MeasurementsConfig
	logg *logger.Logger
}

// NewService constructs a measurements service with the provided dependencies.
func NewService(tx txRunner, repo Repository, cfg config.MeasurementsConfig, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("measurements repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{tx: tx, repo: repo, cfg: cfg, logg: logg}, nil
}

func (s *service) List(ctx context.Context, identity pkgAuth.Identity) ([]ProfileDTO, error) {
	rows, err := s.repo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list profiles")
	}
	out := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID) (*ProfileDTO, error) {
	row, err := s.repo.FindByID(ctx, identity.UserID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	dto := fromModel(row)
	return &dto, nil
}

// GetDefault selects the profile flagged as default, falling back to the
// first profile in list order when none is flagged.
func (s *service) GetDefault(ctx context.Context, identity pkgAuth.Identity) (*ProfileDTO, error) {
	row, err := s.findDefaultOrFirst(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no default profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default profile")
	}
	dto := fromModel(row)
	return &dto, nil
}

func (s *service) findDefaultOrFirst(ctx context.Context, userID uuid.UUID) (*models.MeasurementProfile, error) {
	row, err := s.repo.FindDefault(ctx, userID)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (s *service) Create(ctx context.Context, identity pkgAuth.Identity, in UpsertProfileInput) (*ProfileDTO, error) {
	if identity.IsGuest() {
		return nil, pkgerrors.New(pkgerrors.CodeGuestRestricted, "create an account to save measurements")
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	var created *models.MeasurementProfile
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.Create(ctx, &models.MeasurementProfile{
			UserID:    identity.UserID,
			Name:      strings.TrimSpace(in.Name),
			Values:    in.Values.Clone(),
			Notes:     in.Notes,
			IsDefault: in.IsDefault,
		})
		if err != nil {
			return err
		}
		if in.IsDefault {
			if err := repo.ClearDefault(ctx, identity.UserID, row.ID); err != nil {
				return err
			}
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
	}
	dto := fromModel(created)
	return &dto, nil
}

// Update merges the supplied fields onto the stored profile. Omitted fields
// keep their current value, so a caller can flip is_default without resending
// the name or measurements.
func (s *service) Update(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID, in UpdateProfileInput) (*ProfileDTO, error) {
	if identity.IsGuest() {
		return nil, pkgerrors.New(pkgerrors.CodeGuestRestricted, "create an account to save measurements")
	}
	if err := s.validateUpdate(in); err != nil {
		return nil, err
	}

	var updated *models.MeasurementProfile
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.FindByID(ctx, identity.UserID, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			row.Name = strings.TrimSpace(*in.Name)
		}
		if in.Values != nil {
			row.Values = in.Values.Clone()
		}
		if in.Notes != nil {
			row.Notes = in.Notes
		}
		if in.IsDefault != nil {
			row.IsDefault = *in.IsDefault
		}
		if _, err := repo.Update(ctx, row); err != nil {
			return err
		}
		if row.IsDefault {
			if err := repo.ClearDefault(ctx, identity.UserID, row.ID); err != nil {
				return err
			}
		}
		updated = row
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	dto := fromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID) error {
	if identity.IsGuest() {
		return pkgerrors.New(pkgerrors.CodeGuestRestricted, "create an account to save measurements")
	}
	if err := s.repo.Delete(ctx, identity.UserID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete profile")
	}
	return nil
}

// Resolve turns a measurement reference into the owning user's profile. The
// sentinel "default" maps to the default profile; anything else must parse as
// a profile UUID. A reference that is not yet visible is retried a bounded
// number of times before failing, since profile writes and cart adds can race.
func (s *service) Resolve(ctx context.Context, userID uuid.UUID, ref string) (*ProfileDTO, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "measurement reference is required")
	}

	lookup := func() (*models.MeasurementProfile, error) {
		if trimmed == DefaultProfileRef {
			return s.findDefaultOrFirst(ctx, userID)
		}
		id, err := uuid.Parse(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid measurement reference")
		}
		return s.repo.FindByID(ctx, userID, id)
	}

	attempts := s.cfg.PollMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		row, err := lookup()
		if err == nil {
			dto := fromModel(row)
			return &dto, nil
		}
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, err
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve profile")
		}
		lastErr = err
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "resolve profile")
			case <-time.After(s.cfg.PollBackoff):
			}
		}
	}

	s.logg.Warn(ctx, "measurement reference never became visible")
	return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, lastErr, "measurement profile not found")
}

func (s *service) validateUpdate(in UpdateProfileInput) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile name cannot be blank")
	}
	if in.Values != nil {
		if in.Values.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "at least one measurement is required")
		}
		if err := in.Values.Validate(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid measurements")
		}
	}
	return nil
}

func (s *service) validateInput(in UpsertProfileInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile name is required")
	}
	if in.Values.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one measurement is required")
	}
	if err := in.Values.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid measurements")
	}
	return nil
}
