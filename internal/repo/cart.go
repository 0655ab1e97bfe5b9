package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func withCartProduct(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "price", "availability")
}

// AddToCart inserts the (user, product) line or increments its quantity in a
// single statement. A missing product yields gorm.ErrRecordNotFound.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.Select("id").First(&prod, "id = ?", item.ProductID).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).Create(item).Error; err != nil {
			return err
		}

		// item still holds the id generated for the insert, which is not the
		// stored row's id when the upsert took the update path.
		var saved models.CartItem
		if err := tx.Preload("Product", withCartProduct).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			First(&saved).Error; err != nil {
			return err
		}
		*item = saved
		return nil
	})
}

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product", withCartProduct).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CartTotalQuantity(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepo) ownedCartItem(tx *gorm.DB, id, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	q := tx
	if r.rowLocks() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	return &item, nil
}

func (r *GormRepo) UpdateCartItemQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.ownedCartItem(tx, id, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		if err := tx.Preload("Product", withCartProduct).First(item, "id = ?", id).Error; err != nil {
			return err
		}
		out = item
		return nil
	})
	return out, err
}

func (r *GormRepo) RemoveCartItem(ctx context.Context, id, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.ownedCartItem(tx, id, userID)
		if err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}
