package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/events"
	"github.com/Skotchmaster/marketplace/pkg/lock"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
)

const defaultOrderAttempts = 3

type OrderStore interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, at time.Time) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type OrderService struct {
	Repo        OrderStore
	Locks       lock.Locker
	Events      events.Publisher
	Metrics     *metrics.Metrics
	Now         func() time.Time
	MaxAttempts int
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// PlaceOrder converts the user's whole cart into an order. Placements for the
// same user are serialized; a cart modified mid-checkout is retried.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	if s.Locks != nil {
		unlock, err := s.Locks.Lock(ctx, "order:"+userID.String())
		if err != nil {
			return nil, fmt.Errorf("acquire order lock: %w", err)
		}
		defer unlock()
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultOrderAttempts
	}

	for i := 0; i < attempts; i++ {
		order, err := s.Repo.PlaceOrder(ctx, userID, s.now())
		switch {
		case err == nil:
			s.Metrics.OrderPlaced(len(order.Items))
			publish(ctx, s.Events, events.TopicOrders, userID.String(), events.New(events.OrderPlaced, order))
			l.Info("order placed", "order_id", order.ID, "items", len(order.Items))
			return order, nil
		case errors.Is(err, repo.ErrCartEmpty):
			return nil, ErrEmptyCart
		case errors.Is(err, repo.ErrCartChanged):
			s.Metrics.OrderRetried()
			l.Warn("place_order_retry", "attempt", i+1, "error", err)
			continue
		default:
			return nil, fmt.Errorf("place order: %w", err)
		}
	}
	return nil, fmt.Errorf("cart kept changing during checkout: %w", ErrConflict)
}

func (s *OrderService) History(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

func (s *OrderService) Details(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %w", ErrNotFound)
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order belongs to another user: %w", ErrForbidden)
	}
	return o, nil
}
