package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/internal/cart"
	"github.com/sewnstudio/atelier-backend/internal/orders"
	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/db/models"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/metrics"
	"github.com/sewnstudio/atelier-backend/pkg/outbox"
	"github.com/sewnstudio/atelier-backend/pkg/outbox/payloads"
	"github.com/sewnstudio/atelier-backend/pkg/wallet"
)

// Service converts the active cart into a placed order.
type Service interface {
	Submit(ctx context.Context, identity pkgAuth.Identity, in SubmitInput) (*SubmitOutput, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type paymentLinker interface {
	CreatePaymentLink(ctx context.Context, params wallet.PaymentLinkParams) (wallet.PaymentLink, error)
}

type service struct {
	tx        txRunner
	cartRepo  cart.Repository
	orderRepo orders.Repository
	outbox    outboxEmitter
	wallet    paymentLinker
	walletCfg config.WalletConfig
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Tx           txRunner
	CartRepo     cart.Repository
	OrderRepo    orders.Repository
	Outbox       outboxEmitter
	Wallet       paymentLinker
	WalletConfig config.WalletConfig
	Metrics      *metrics.CheckoutMetrics
	Logger       *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
// Wallet may be nil when only pay-on-pickup is offered.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		tx:        params.Tx,
		cartRepo:  params.CartRepo,
		orderRepo: params.OrderRepo,
		outbox:    params.Outbox,
		wallet:    params.Wallet,
		walletCfg: params.WalletConfig,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// Validate applies the submission gates in order: the guest restriction
// first so guests see the account prompt rather than a field error, then
// the empty-cart check, then the contact fields.
func Validate(identity pkgAuth.Identity, agg *cart.Aggregate, in SubmitInput) error {
	if identity.IsGuest() {
		return pkgerrors.New(pkgerrors.CodeGuestRestricted, "create an account to continue")
	}
	if agg.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(in.ContactName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact name is required")
	}
	if strings.TrimSpace(in.ContactPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact phone is required")
	}
	if !in.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}

// Assemble freezes the aggregate into an order snapshot. Lines keep the
// prices locked at add-to-cart time; zero-quantity lines are dropped.
func Assemble(identity pkgAuth.Identity, agg *cart.Aggregate, in SubmitInput) *models.Order {
	order := &models.Order{
		UserID:        identity.UserID,
		Status:        enums.OrderStatusPlaced,
		PaymentMethod: in.PaymentMethod,
		ContactName:   strings.TrimSpace(in.ContactName),
		ContactPhone:  strings.TrimSpace(in.ContactPhone),
		Total:         agg.Total(),
	}

	position := 0
	for _, line := range agg.Lines() {
		if line.Quantity == 0 {
			continue
		}
		order.Lines = append(order.Lines, models.OrderLine{
			Position:          position,
			ItemID:            line.ItemID,
			ItemName:          line.ItemName,
			UnitPrice:         line.UnitPrice,
			MeasurementRef:    line.MeasurementRef,
			MeasurementName:   line.MeasurementName,
			FabricType:        line.FabricType,
			Quantity:          line.Quantity,
			ImageRef:          line.ImageRef,
			MaterialProvision: line.MaterialProvision,
			MaterialFee:       line.MaterialFee,
			LineTotal:         line.UnitPrice.Add(line.MaterialFee).Mul(decimalFromInt(line.Quantity)),
		})
		position++
	}
	return order
}

// Submit validates the cart, assembles the snapshot, persists it with the
// outbox event in one transaction, and converts the cart only on success.
// The cart is untouched on any failure.
func (s *service) Submit(ctx context.Context, identity pkgAuth.Identity, in SubmitInput) (*SubmitOutput, error) {
	start := time.Now()
	machine := NewMachine()

	out, err := s.submit(ctx, machine, identity, in)
	if err != nil {
		machine.Fail()
		s.metrics.IncFailure(string(in.PaymentMethod), failureReason(err))
		return nil, err
	}

	s.metrics.IncSuccess(string(in.PaymentMethod))
	s.metrics.ObserveDuration(string(in.PaymentMethod), time.Since(start))
	return out, nil
}

func (s *service) submit(ctx context.Context, machine *Machine, identity pkgAuth.Identity, in SubmitInput) (*SubmitOutput, error) {
	if err := machine.To(enums.CheckoutStateValidating); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout state")
	}

	record, err := s.cartRepo.FindActiveByUser(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No cart at all reads as an empty cart, but only after the
			// guest gate has had its say.
			record = &models.CartRecord{UserID: identity.UserID}
		} else {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
	}
	agg := cart.NewAggregate(record.Lines)

	if err := Validate(identity, agg, in); err != nil {
		return nil, err
	}

	order := Assemble(identity, agg, in)

	var link *wallet.PaymentLink
	if in.PaymentMethod.RequiresWallet() {
		l, err := s.createPaymentLink(ctx, identity, order)
		if err != nil {
			return nil, err
		}
		link = l
		order.PaymentLink = &l.URL
	}

	if err := machine.To(enums.CheckoutStateSubmitting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout state")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if _, err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: identity.UserID, Role: string(identity.Role)},
			Data: payloads.OrderPlacedEvent{
				OrderID:       order.ID,
				UserID:        identity.UserID,
				PaymentMethod: order.PaymentMethod,
				Total:         order.Total,
				LineCount:     len(order.Lines),
				PlacedAt:      time.Now().UTC(),
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		// Retire the cart only once the order is durably placed. The
		// converted cart keeps its line rows as a record of what was
		// ordered; the next add-to-cart lazily creates a fresh active cart.
		if err := cartRepo.MarkConverted(ctx, record.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed, try again")
	}

	if err := machine.To(enums.CheckoutStateSucceeded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout state")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":       order.ID.String(),
		"payment_method": string(order.PaymentMethod),
		"total":          order.Total.String(),
	}), "order placed")

	out := &SubmitOutput{Order: orders.FromModel(order)}
	if link != nil {
		out.PaymentLink = &link.URL
	}
	return out, nil
}

func (s *service) createPaymentLink(ctx context.Context, identity pkgAuth.Identity, order *models.Order) (*wallet.PaymentLink, error) {
	if s.wallet == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "prepayment is currently unavailable")
	}
	link, err := s.wallet.CreatePaymentLink(ctx, wallet.PaymentLinkParams{
		OrderRef:    fmt.Sprintf("order for %s", identity.UserID),
		Description: fmt.Sprintf("%d tailored pieces", len(order.Lines)),
		AmountCents: order.Total.Mul(decimalFromInt(100)).IntPart(),
		Currency:    s.walletCfg.Currency,
		LocationID:  s.walletCfg.LocationID,
	})
	if err != nil {
		s.logg.Error(ctx, "payment link creation failed", err)
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prepayment is currently unavailable")
	}
	return &link, nil
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func failureReason(err error) string {
	if domainErr := pkgerrors.As(err); domainErr != nil {
		return string(domainErr.Code())
	}
	return "internal"
}
