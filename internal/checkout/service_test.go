package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/outbox"
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
	"github.com/sewnstudio/atelier-backend/pkg/wallet"

	cartpkg "github.com/sewnstudio/atelier-backend/internal/cart"
	orderspkg "github.com/sewnstudio/atelier-backend/internal/orders"
)

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubCartRepo struct {
	record          *models.CartRecord
	replacedLines   []models.CartLine
	replaceCalled   bool
	convertedCalled bool
	convertedID     uuid.UUID
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cartpkg.Repository {
	return s
}

func (s *stubCartRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCartRepo) CreateActive(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	s.record = &models.CartRecord{ID: uuid.New(), UserID: userID, Status: enums.CartStatusActive}
	return s.record, nil
}

func (s *stubCartRepo) ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error {
	s.replaceCalled = true
	s.replacedLines = lines
	return nil
}

func (s *stubCartRepo) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	s.convertedCalled = true
	s.convertedID = cartID
	return nil
}

type stubOrderRepo struct {
	created   *models.Order
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orderspkg.Repository {
	return s
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	panic("not implemented")
}

type stubOutboxEmitter struct {
	called bool
	event  outbox.DomainEvent
	err    error
}

func (s *stubOutboxEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.called = true
	s.event = event
	return nil
}

type stubWallet struct {
	link   wallet.PaymentLink
	err    error
	called bool
	params wallet.PaymentLinkParams
}

func (s *stubWallet) CreatePaymentLink(ctx context.Context, params wallet.PaymentLinkParams) (wallet.PaymentLink, error) {
	s.called = true
	s.params = params
	if s.err != nil {
		return wallet.PaymentLink{}, s.err
	}
	return s.link, nil
}

type checkoutDeps struct {
	tx       stubTxRunner
	cartRepo *stubCartRepo
	orders   *stubOrderRepo
	emitter  *stubOutboxEmitter
	wallet   paymentLinker
}

func newCheckoutService(t *testing.T, deps checkoutDeps) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Tx:        deps.tx,
		CartRepo:  deps.cartRepo,
		OrderRepo: deps.orders,
		Outbox:    deps.emitter,
		Wallet:    deps.wallet,
		WalletConfig: config.WalletConfig{
			Currency:   "USD",
			LocationID: "loc-main",
		},
		Logger: logger.New(logger.Options{ServiceName: "checkout-test"}),
	})
	require.NoError(t, err)
	return svc
}

func cartWithLines(userID uuid.UUID) *models.CartRecord {
	cartID := uuid.New()
	return &models.CartRecord{
		ID:     cartID,
		UserID: userID,
		Status: enums.CartStatusActive,
		Lines: []models.CartLine{
			{
				CartID:            cartID,
				Position:          0,
				ItemID:            uuid.New(),
				ItemName:          "Tailored Blazer",
				UnitPrice:         decimal.NewFromInt(699),
				MeasurementRef:    "default",
				MeasurementName:   "Default",
				Quantity:          1,
				MaterialProvision: enums.MaterialProvisionShop,
				MaterialFee:       decimal.NewFromInt(140),
			},
		},
	}
}

func customerIdentity() pkgAuth.Identity {
	return pkgAuth.Identity{UserID: uuid.New(), Role: enums.MemberRoleCustomer}
}

func validInput() SubmitInput {
	return SubmitInput{
		PaymentMethod: enums.PaymentMethodPayOnPickup,
		ContactName:   "Dana Reyes",
		ContactPhone:  "+15550001122",
	}
}

func TestSubmitGuestGateFiresBeforeEmptyCartCheck(t *testing.T) {
	// The guest has no cart row at all, which would otherwise read as an
	// empty cart. The account prompt must win.
	deps := checkoutDeps{
		cartRepo: &stubCartRepo{},
		orders:   &stubOrderRepo{},
		emitter:  &stubOutboxEmitter{},
	}
	svc := newCheckoutService(t, deps)

	_, err := svc.Submit(context.Background(),
		pkgAuth.Identity{UserID: uuid.New(), Role: enums.MemberRoleGuest}, validInput())
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeGuestRestricted, domainErr.Code())
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	identity := customerIdentity()
	deps := checkoutDeps{
		cartRepo: &stubCartRepo{record: &models.CartRecord{ID: uuid.New(), UserID: identity.UserID}},
		orders:   &stubOrderRepo{},
		emitter:  &stubOutboxEmitter{},
	}
	svc := newCheckoutService(t, deps)

	_, err := svc.Submit(context.Background(), identity, validInput())
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}

func TestSubmitRejectsMissingContactFields(t *testing.T) {
	identity := customerIdentity()
	deps := checkoutDeps{
		cartRepo: &stubCartRepo{record: cartWithLines(identity.UserID)},
		orders:   &stubOrderRepo{},
		emitter:  &stubOutboxEmitter{},
	}
	svc := newCheckoutService(t, deps)

	in := validInput()
	in.ContactName = "   "
	_, err := svc.Submit(context.Background(), identity, in)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())

	in = validInput()
	in.ContactPhone = ""
	_, err = svc.Submit(context.Background(), identity, in)
	domainErr = pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
}

func TestSubmitPlacesOrderAndConvertsCart(t *testing.T) {
	identity := customerIdentity()
	record := cartWithLines(identity.UserID)
	cartRepo := &stubCartRepo{record: record}
	orderRepo := &stubOrderRepo{}
	emitter := &stubOutboxEmitter{}
	svc := newCheckoutService(t, checkoutDeps{
		cartRepo: cartRepo, orders: orderRepo, emitter: emitter,
	})

	out, err := svc.Submit(context.Background(), identity, validInput())
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, out.Order.Status)
	assert.True(t, out.Order.Total.Equal(decimal.NewFromInt(839)))
	assert.Nil(t, out.PaymentLink, "pay on pickup must not produce a payment link")
	require.NotNil(t, orderRepo.created)
	assert.Len(t, orderRepo.created.Lines, 1)
	require.True(t, emitter.called, "expected order placed event")
	assert.Equal(t, enums.EventOrderPlaced, emitter.event.EventType)

	// The cart row is retired rather than emptied; the next add-to-cart
	// starts a fresh active cart.
	assert.True(t, cartRepo.convertedCalled)
	assert.Equal(t, record.ID, cartRepo.convertedID)
	assert.False(t, cartRepo.replaceCalled, "converted cart keeps its line snapshot")
}

func TestSubmitDropsZeroQuantityLines(t *testing.T) {
	identity := customerIdentity()
	record := cartWithLines(identity.UserID)
	record.Lines = append(record.Lines, models.CartLine{
		CartID:            record.ID,
		Position:          1,
		ItemID:            uuid.New(),
		ItemName:          "Linen Shirt",
		UnitPrice:         decimal.NewFromInt(250),
		MeasurementRef:    "default",
		MeasurementName:   "Default",
		Quantity:          0,
		MaterialProvision: enums.MaterialProvisionShop,
		MaterialFee:       decimal.NewFromInt(50),
	})
	orderRepo := &stubOrderRepo{}
	svc := newCheckoutService(t, checkoutDeps{
		cartRepo: &stubCartRepo{record: record}, orders: orderRepo, emitter: &stubOutboxEmitter{},
	})

	out, err := svc.Submit(context.Background(), identity, validInput())
	require.NoError(t, err)
	require.Len(t, orderRepo.created.Lines, 1, "zero-quantity line dropped")
	assert.Equal(t, 0, orderRepo.created.Lines[0].Position, "positions renumbered")
	assert.True(t, out.Order.Total.Equal(decimal.NewFromInt(839)))
}

func TestSubmitPrepaidCreatesPaymentLink(t *testing.T) {
	identity := customerIdentity()
	provider := &stubWallet{link: wallet.PaymentLink{ID: "pl-1", URL: "https://pay.example/pl-1"}}
	orderRepo := &stubOrderRepo{}
	svc := newCheckoutService(t, checkoutDeps{
		cartRepo: &stubCartRepo{record: cartWithLines(identity.UserID)},
		orders:   orderRepo,
		emitter:  &stubOutboxEmitter{},
		wallet:   provider,
	})

	in := validInput()
	in.PaymentMethod = enums.PaymentMethodPrepaidFull
	out, err := svc.Submit(context.Background(), identity, in)
	require.NoError(t, err)
	require.True(t, provider.called, "expected wallet call")
	assert.Equal(t, int64(83900), provider.params.AmountCents)
	require.NotNil(t, out.PaymentLink)
	assert.Equal(t, "https://pay.example/pl-1", *out.PaymentLink)
	assert.NotNil(t, orderRepo.created.PaymentLink, "link persisted on the order")
}

func TestSubmitPrepaidWithoutWalletFails(t *testing.T) {
	identity := customerIdentity()
	cartRepo := &stubCartRepo{record: cartWithLines(identity.UserID)}
	svc := newCheckoutService(t, checkoutDeps{
		cartRepo: cartRepo, orders: &stubOrderRepo{}, emitter: &stubOutboxEmitter{},
	})

	in := validInput()
	in.PaymentMethod = enums.PaymentMethodPrepaidInstallment
	_, err := svc.Submit(context.Background(), identity, in)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeDependency, domainErr.Code())
	assert.False(t, cartRepo.convertedCalled, "cart must stay intact on failure")
}

func TestSubmitCartIntactWhenTransactionFails(t *testing.T) {
	identity := customerIdentity()
	cartRepo := &stubCartRepo{record: cartWithLines(identity.UserID)}
	svc := newCheckoutService(t, checkoutDeps{
		tx:       stubTxRunner{err: errors.New("connection reset")},
		cartRepo: cartRepo,
		orders:   &stubOrderRepo{},
		emitter:  &stubOutboxEmitter{},
	})

	_, err := svc.Submit(context.Background(), identity, validInput())
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeDependency, domainErr.Code())
	assert.False(t, cartRepo.convertedCalled, "cart must stay intact on failure")
}

func TestSubmitCartIntactWhenOutboxFails(t *testing.T) {
	identity := customerIdentity()
	cartRepo := &stubCartRepo{record: cartWithLines(identity.UserID)}
	svc := newCheckoutService(t, checkoutDeps{
		cartRepo: cartRepo,
		orders:   &stubOrderRepo{},
		emitter:  &stubOutboxEmitter{err: errors.New("outbox insert failed")},
	})

	_, err := svc.Submit(context.Background(), identity, validInput())
	require.Error(t, err)
	assert.False(t, cartRepo.convertedCalled, "cart must stay intact when the event cannot be queued")
}
