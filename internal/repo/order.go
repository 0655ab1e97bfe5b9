package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// PlaceOrder turns the user's cart into an order and clears exactly the
// snapshotted lines, all in one transaction. ErrCartChanged means the cart
// was modified concurrently and nothing was written.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uuid.UUID, at time.Time) (*models.Order, error) {
	var order *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ?", userID).Order("created_at ASC, id ASC")
		if r.rowLocks() {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var cart []models.CartItem
		if err := q.Find(&cart).Error; err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrCartEmpty
		}

		o := &models.Order{UserID: userID, OrderDate: at}
		if err := tx.Omit(clause.Associations).Create(o).Error; err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(cart))
		items := make([]models.OrderItem, len(cart))
		for i, ci := range cart {
			ids[i] = ci.ID
			items[i] = models.OrderItem{
				OrderID:   o.ID,
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Position:  i,
			}
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrCartChanged
		}

		o.Items = items
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Preload("Items.Product", withCartProduct).
		First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
