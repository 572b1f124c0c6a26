package measurements

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/types"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProfilesRepo struct {
	rows          []models.MeasurementProfile
	clearedKeep   uuid.UUID
	clearCalled   bool
	findByIDCalls int
	findByID      func(userID, id uuid.UUID) (*models.MeasurementProfile, error)
}

func (s *stubProfilesRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubProfilesRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MeasurementProfile, error) {
	out := make([]models.MeasurementProfile, 0, len(s.rows))
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubProfilesRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.MeasurementProfile, error) {
	s.findByIDCalls++
	if s.findByID != nil {
		return s.findByID(userID, id)
	}
	for i := range s.rows {
		if s.rows[i].UserID == userID && s.rows[i].ID == id {
			return &s.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfilesRepo) FindDefault(ctx context.Context, userID uuid.UUID) (*models.MeasurementProfile, error) {
	for i := range s.rows {
		if s.rows[i].UserID == userID && s.rows[i].IsDefault {
			return &s.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfilesRepo) Create(ctx context.Context, profile *models.MeasurementProfile) (*models.MeasurementProfile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.rows = append(s.rows, *profile)
	return profile, nil
}

func (s *stubProfilesRepo) Update(ctx context.Context, profile *models.MeasurementProfile) (*models.MeasurementProfile, error) {
	for i := range s.rows {
		if s.rows[i].ID == profile.ID {
			s.rows[i] = *profile
			return profile, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfilesRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i := range s.rows {
		if s.rows[i].UserID == userID && s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubProfilesRepo) ClearDefault(ctx context.Context, userID uuid.UUID, keep uuid.UUID) error {
	s.clearCalled = true
	s.clearedKeep = keep
	for i := range s.rows {
		if s.rows[i].UserID == userID && s.rows[i].ID != keep {
			s.rows[i].IsDefault = false
		}
	}
	return nil
}

func newProfilesService(t *testing.T, repo Repository, cfg config.MeasurementsConfig) Service {
	t.Helper()
	svc, err := NewService(stubTxRunner{}, repo, cfg, logger.New(logger.Options{ServiceName: "measurements-test"}))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func fastPollConfig() config.MeasurementsConfig {
	return config.MeasurementsConfig{PollMaxAttempts: 3, PollBackoff: time.Millisecond}
}

func sampleValues() types.MeasurementSet {
	return types.MeasurementSet{
		enums.MeasurementBust:  decimal.NewFromFloat(36.5),
		enums.MeasurementWaist: decimal.NewFromInt(30),
	}
}

func TestCreateRejectsGuests(t *testing.T) {
	svc := newProfilesService(t, &stubProfilesRepo{}, fastPollConfig())

	_, err := svc.Create(context.Background(),
		pkgAuth.Identity{UserID: uuid.New(), Role: enums.MemberRoleGuest},
		UpsertProfileInput{Name: "Summer Fit", Values: sampleValues()})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeGuestRestricted {
		t.Fatalf("expected guest restriction got %v", err)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newProfilesService(t, &stubProfilesRepo{}, fastPollConfig())
	identity := pkgAuth.Identity{UserID: uuid.New(), Role: enums.MemberRoleCustomer}

	_, err := svc.Create(context.Background(), identity, UpsertProfileInput{Name: "  ", Values: sampleValues()})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name got %v", err)
	}

	_, err = svc.Create(context.Background(), identity, UpsertProfileInput{Name: "Summer Fit"})
	domainErr = pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty values got %v", err)
	}
}

func TestCreateDefaultUnsetsOtherDefaults(t *testing.T) {
	userID := uuid.New()
	existing := models.MeasurementProfile{
		ID: uuid.New(), UserID: userID, Name: "Old Fit",
		Values: sampleValues(), IsDefault: true,
	}
	repo := &stubProfilesRepo{rows: []models.MeasurementProfile{existing}}
	svc := newProfilesService(t, repo, fastPollConfig())

	dto, err := svc.Create(context.Background(),
		pkgAuth.Identity{UserID: userID, Role: enums.MemberRoleCustomer},
		UpsertProfileInput{Name: "New Fit", Values: sampleValues(), IsDefault: true})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !repo.clearCalled {
		t.Fatal("expected previous defaults cleared")
	}
	if repo.clearedKeep != dto.ID {
		t.Fatalf("expected new profile kept as default")
	}
	for _, row := range repo.rows {
		if row.ID != dto.ID && row.IsDefault {
			t.Fatalf("profile %s still default", row.Name)
		}
	}
}

func TestUpdateMergesPartialInput(t *testing.T) {
	userID := uuid.New()
	profile := models.MeasurementProfile{
		ID: uuid.New(), UserID: userID, Name: "Summer", Values: sampleValues(),
	}
	repo := &stubProfilesRepo{rows: []models.MeasurementProfile{profile}}
	svc := newProfilesService(t, repo, fastPollConfig())

	makeDefault := true
	dto, err := svc.Update(context.Background(),
		pkgAuth.Identity{UserID: userID, Role: enums.MemberRoleCustomer},
		profile.ID, UpdateProfileInput{IsDefault: &makeDefault})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Name != "Summer" {
		t.Fatalf("expected name kept, got %q", dto.Name)
	}
	if !dto.IsDefault {
		t.Fatal("expected profile flagged default")
	}
	if len(dto.Values) != len(sampleValues()) {
		t.Fatalf("expected values kept, got %d entries", len(dto.Values))
	}
	if !repo.clearCalled || repo.clearedKeep != profile.ID {
		t.Fatal("expected other defaults cleared")
	}
}

func TestUpdateRejectsBlankNameWhenSupplied(t *testing.T) {
	userID := uuid.New()
	profile := models.MeasurementProfile{
		ID: uuid.New(), UserID: userID, Name: "Summer", Values: sampleValues(),
	}
	repo := &stubProfilesRepo{rows: []models.MeasurementProfile{profile}}
	svc := newProfilesService(t, repo, fastPollConfig())
	identity := pkgAuth.Identity{UserID: userID, Role: enums.MemberRoleCustomer}

	blank := "  "
	_, err := svc.Update(context.Background(), identity, profile.ID, UpdateProfileInput{Name: &blank})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name got %v", err)
	}

	renamed := "Winter"
	dto, err := svc.Update(context.Background(), identity, profile.ID, UpdateProfileInput{Name: &renamed})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Name != "Winter" {
		t.Fatalf("expected renamed profile got %q", dto.Name)
	}
}

func TestResolveSentinelFallsBackToFirstProfile(t *testing.T) {
	userID := uuid.New()
	first := models.MeasurementProfile{
		ID: uuid.New(), UserID: userID, Name: "Only Fit", Values: sampleValues(),
	}
	repo := &stubProfilesRepo{rows: []models.MeasurementProfile{first}}
	svc := newProfilesService(t, repo, fastPollConfig())

	dto, err := svc.Resolve(context.Background(), userID, DefaultProfileRef)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.ID != first.ID {
		t.Fatalf("expected first profile got %s", dto.Name)
	}
}

func TestResolveRejectsMalformedReference(t *testing.T) {
	svc := newProfilesService(t, &stubProfilesRepo{}, fastPollConfig())

	_, err := svc.Resolve(context.Background(), uuid.New(), "not-a-uuid")
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestResolveRetriesUntilProfileVisible(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()
	profile := models.MeasurementProfile{
		ID: profileID, UserID: userID, Name: "Late Fit", Values: sampleValues(),
	}
	calls := 0
	repo := &stubProfilesRepo{
		findByID: func(uid, id uuid.UUID) (*models.MeasurementProfile, error) {
			calls++
			if calls < 3 {
				return nil, gorm.ErrRecordNotFound
			}
			return &profile, nil
		},
	}
	svc := newProfilesService(t, repo, fastPollConfig())

	dto, err := svc.Resolve(context.Background(), userID, profileID.String())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.ID != profileID {
		t.Fatalf("unexpected profile %s", dto.ID)
	}
	if calls != 3 {
		t.Fatalf("expected 3 lookups got %d", calls)
	}
}

func TestResolveGivesUpAfterMaxAttempts(t *testing.T) {
	repo := &stubProfilesRepo{}
	svc := newProfilesService(t, repo, fastPollConfig())

	_, err := svc.Resolve(context.Background(), uuid.New(), uuid.NewString())
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
	if repo.findByIDCalls != 3 {
		t.Fatalf("expected 3 attempts got %d", repo.findByIDCalls)
	}
}

func TestGetDefaultPrefersFlaggedProfile(t *testing.T) {
	userID := uuid.New()
	repo := &stubProfilesRepo{rows: []models.MeasurementProfile{
		{ID: uuid.New(), UserID: userID, Name: "Casual", Values: sampleValues()},
		{ID: uuid.New(), UserID: userID, Name: "Formal", Values: sampleValues(), IsDefault: true},
	}}
	svc := newProfilesService(t, repo, fastPollConfig())

	dto, err := svc.GetDefault(context.Background(), pkgAuth.Identity{UserID: userID, Role: enums.MemberRoleCustomer})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Name != "Formal" {
		t.Fatalf("expected flagged default got %s", dto.Name)
	}
}

func TestDeleteRejectsGuests(t *testing.T) {
	svc := newProfilesService(t, &stubProfilesRepo{}, fastPollConfig())

	err := svc.Delete(context.Background(),
		pkgAuth.Identity{UserID: uuid.New(), Role: enums.MemberRoleGuest}, uuid.New())
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeGuestRestricted {
		t.Fatalf("expected guest restriction got %v", err)
	}
}
