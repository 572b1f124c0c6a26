package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/sewnstudio/atelier-backend/pkg/auth"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/logger"
	"github.com/sewnstudio/atelier-backend/pkg/outbox"
	"github.com/sewnstudio/atelier-backend/pkg/outbox/payloads"
	"github.com/sewnstudio/atelier-backend/pkg/pagination"
)

// Service exposes order reads plus the admin status progression.
type Service interface {
	GetOrder(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, identity pkgAuth.Identity, in ListOrdersInput) (*ListOrdersOutput, error)
	UpdateStatus(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID, in UpdateStatusInput) (*OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	tx     txRunner
	repo   Repository
	outbox outboxEmitter
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Tx     txRunner
	Repo   Repository
	Outbox outboxEmitter
	Logger *logger.Logger
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		tx:     params.Tx,
		repo:   params.Repo,
		outbox: params.Outbox,
		logg:   params.Logger,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.UserID != identity.UserID && identity.Role != enums.MemberRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, identity pkgAuth.Identity, in ListOrdersInput) (*ListOrdersOutput, error) {
	rows, err := s.repo.ListByUser(ctx, identity.UserID, in.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	limit := pagination.NormalizeLimit(in.Pagination.Limit)
	out := &ListOrdersOutput{Orders: make([]OrderDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			out.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		out.Orders = append(out.Orders, FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateStatus advances the order through the tailoring pipeline. Transitions
// only move forward, skips are allowed, and cancellation is reachable from
// any non-terminal state.
func (s *service) UpdateStatus(ctx context.Context, identity pkgAuth.Identity, id uuid.UUID, in UpdateStatusInput) (*OrderDTO, error) {
	if identity.Role != enums.MemberRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !in.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		from := order.Status
		if !from.CanTransition(in.Status) {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("cannot move order from %s to %s", from, in.Status))
		}
		if err := repo.UpdateStatus(ctx, order.ID, in.Status); err != nil {
			return err
		}
		order.Status = in.Status

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: identity.UserID, Role: string(identity.Role)},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:    order.ID,
				UserID:     order.UserID,
				FromStatus: from,
				ToStatus:   in.Status,
				ChangedAt:  time.Now().UTC(),
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		if kind, ok := notificationKind(in.Status); ok {
			notify := outbox.DomainEvent{
				EventType:     enums.EventNotificationRequested,
				AggregateType: enums.AggregateNotification,
				AggregateID:   order.ID,
				Actor:         &outbox.ActorRef{UserID: identity.UserID, Role: string(identity.Role)},
				Data: payloads.NotificationRequestedEvent{
					OrderID: order.ID,
					UserID:  order.UserID,
					Type:    kind,
				},
				Version: 1,
			}
			if err := s.outbox.Emit(ctx, tx, notify); err != nil {
				return err
			}
		}

		dto := FromModel(order)
		updated = &dto
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": id.String(),
		"status":   string(in.Status),
	}), "order status updated")
	return updated, nil
}

// notificationKind maps the pipeline states a customer should hear about to
// the notification type fanned out on the notification topic.
func notificationKind(status enums.OrderStatus) (string, bool) {
	switch status {
	case enums.OrderStatusReady:
		return "order_ready", true
	case enums.OrderStatusCancelled:
		return "order_cancelled", true
	default:
		return "", false
	}
}
