package orders

import (
	"context"
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
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  contact_name TEXT NOT NULL,
  contact_phone TEXT NOT NULL,
  total TEXT NOT NULL,
  payment_link TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderLines := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT,
  order_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  item_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  measurement_ref TEXT NOT NULL,
  measurement_name TEXT NOT NULL,
  fabric_type TEXT,
  quantity INTEGER NOT NULL,
  image_ref TEXT,
  material_provision TEXT NOT NULL,
  material_fee TEXT NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderLines).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, created time.Time, lineNames ...string) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        enums.OrderStatusPlaced,
		PaymentMethod: enums.PaymentMethodPayOnPickup,
		ContactName:   "Adaeze N.",
		ContactPhone:  "+2348012345678",
		Total:         decimal.NewFromInt(int64(900 * len(lineNames))),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(order).Error)

	for i, name := range lineNames {
		line := models.OrderLine{
			ID:                uuid.New(),
			OrderID:           order.ID,
			Position:          i,
			ItemID:            uuid.New(),
			ItemName:          name,
			UnitPrice:         decimal.NewFromInt(900),
			MeasurementRef:    "default",
			MeasurementName:   "Everyday Fit",
			Quantity:          1,
			MaterialProvision: enums.MaterialProvisionShop,
			MaterialFee:       decimal.Zero,
			LineTotal:         decimal.NewFromInt(900),
			CreatedAt:         created,
		}
		require.NoError(t, db.Create(&line).Error)
	}
	return order
}

func TestRepositoryFindByIDLoadsLinesInOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	seeded := seedOrder(t, db, userID, time.Now().UTC(), "Agbada Set", "Senator Suit")

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Agbada Set", found.Lines[0].ItemName)
	assert.Equal(t, "Senator Suit", found.Lines[1].ItemName)
	assert.Equal(t, enums.OrderStatusPlaced, found.Status)
}

func TestRepositoryListByUserPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	now := time.Now().UTC()
	older := seedOrder(t, db, userID, now.Add(-time.Hour), "Agbada Set")
	newer := seedOrder(t, db, userID, now, "Ankara Shift Dress")
	seedOrder(t, db, uuid.New(), now, "Someone Else's Order")

	rows, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	// one page plus the buffer row used for next-page detection
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: rows[0].CreatedAt, ID: rows[0].ID})
	second, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 1, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, older.ID, second[0].ID)
}

func TestRepositoryListByUserRejectsMalformedCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ListByUser(context.Background(), uuid.New(), pagination.Params{Cursor: "not-base64!"})
	require.Error(t, err)
}

func TestRepositoryUpdateStatusLeavesSnapshotAlone(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	seeded := seedOrder(t, db, userID, time.Now().UTC(), "Agbada Set")
	require.NoError(t, repo.UpdateStatus(context.Background(), seeded.ID, enums.OrderStatusTailoring))

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusTailoring, found.Status)
	assert.Equal(t, "Adaeze N.", found.ContactName)
	assert.True(t, seeded.Total.Equal(found.Total))
}
