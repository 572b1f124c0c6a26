package measurements

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	"github.com/sewnstudio/atelier-backend/pkg/types"
)

func setupProfilesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS measurement_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  "values" TEXT NOT NULL,
  notes TEXT,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, isDefault bool, created time.Time) *models.MeasurementProfile {
	t.Helper()

	profile := &models.MeasurementProfile{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Values: types.MeasurementSet{
			enums.MeasurementBust:  decimal.NewFromFloat(92.5),
			enums.MeasurementWaist: decimal.NewFromInt(74),
		},
		IsDefault: isDefault,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func TestRepositoryListByUserDefaultFirst(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	seedProfile(t, db, userID, "Oldest", false, now.Add(-2*time.Hour))
	preferred := seedProfile(t, db, userID, "Preferred", true, now.Add(-time.Hour))
	seedProfile(t, db, userID, "Newest", false, now)
	seedProfile(t, db, uuid.New(), "Other Shopper", true, now)

	rows, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, preferred.ID, rows[0].ID)
	assert.Equal(t, "Newest", rows[1].Name)
	assert.Equal(t, "Oldest", rows[2].Name)
}

func TestRepositoryFindByIDScopedToOwner(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New()

	profile := seedProfile(t, db, owner, "Everyday Fit", true, time.Now().UTC())

	found, err := repo.FindByID(context.Background(), owner, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Everyday Fit", found.Name)
	assert.True(t, found.Values[enums.MeasurementBust].Equal(decimal.NewFromFloat(92.5)))

	_, err = repo.FindByID(context.Background(), uuid.New(), profile.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryClearDefaultKeepsOne(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	old := seedProfile(t, db, userID, "Old Default", true, now.Add(-time.Hour))
	next := seedProfile(t, db, userID, "New Default", true, now)

	require.NoError(t, repo.ClearDefault(context.Background(), userID, next.ID))

	kept, err := repo.FindDefault(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, next.ID, kept.ID)

	cleared, err := repo.FindByID(context.Background(), userID, old.ID)
	require.NoError(t, err)
	assert.False(t, cleared.IsDefault)
}

func TestRepositoryDeleteScopedToOwner(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)
	owner := uuid.New()

	profile := seedProfile(t, db, owner, "Everyday Fit", false, time.Now().UTC())

	require.NoError(t, repo.Delete(context.Background(), uuid.New(), profile.ID))
	_, err := repo.FindByID(context.Background(), owner, profile.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), owner, profile.ID))
	_, err = repo.FindByID(context.Background(), owner, profile.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
