package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                   json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_cart_user_product;not null"   json:"userId"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_user_product;not null"   json:"productId"`
	Quantity  int       `gorm:"not null;check:quantity > 0"                  json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID"                         json:"product,omitempty"`
	CreatedAt time.Time `                                                    json:"createdAt"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}
