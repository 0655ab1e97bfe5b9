package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/events"
)

type CartStore interface {
	AddToCart(ctx context.Context, item *models.CartItem) error
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	CartTotalQuantity(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateCartItemQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, id, userID uuid.UUID) error
}

type CartService struct {
	Repo   CartStore
	Events events.Publisher
}

func cartItemError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("cart item %w", ErrNotFound)
	case errors.Is(err, repo.ErrNotOwner):
		return fmt.Errorf("cart item belongs to another user: %w", ErrForbidden)
	}
	return err
}

// AddOrIncrement adds quantity of the product to the cart, defaulting to 1.
func (s *CartService) AddOrIncrement(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, invalid("productId is required")
	}
	if quantity < 0 {
		return nil, invalid("quantity must be positive")
	}
	if quantity == 0 {
		quantity = 1
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %w", ErrNotFound)
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), events.New(events.CartItemAdded, map[string]any{
		"userId":    userID,
		"productId": productID,
		"added":     quantity,
		"quantity":  item.Quantity,
	}))
	return item, nil
}

func (s *CartService) View(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) TotalQuantity(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.Repo.CartTotalQuantity(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, invalid("quantity must be at least 1")
	}
	item, err := s.Repo.UpdateCartItemQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		return nil, cartItemError(err)
	}
	publish(ctx, s.Events, events.TopicCart, userID.String(), events.New(events.CartItemUpdated, map[string]any{
		"userId":     userID,
		"cartItemId": itemID,
		"quantity":   quantity,
	}))
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.Repo.RemoveCartItem(ctx, itemID, userID); err != nil {
		return cartItemError(err)
	}
	publish(ctx, s.Events, events.TopicCart, userID.String(), events.New(events.CartItemRemoved, map[string]any{
		"userId":     userID,
		"cartItemId": itemID,
	}))
	return nil
}
