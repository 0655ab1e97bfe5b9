package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is immutable once written.
type Order struct {
	ID        uuid.UUID   `gorm:"primaryKey"            json:"id"`
	UserID    uuid.UUID   `gorm:"index;not null"        json:"userId"`
	OrderDate time.Time   `gorm:"index;not null"        json:"orderDate"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"    json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                   json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null"               json:"orderId"`
	ProductID uuid.UUID `gorm:"not null"                     json:"productId"`
	Quantity  int       `gorm:"not null;check:quantity > 0"  json:"quantity"`
	Position  int       `gorm:"not null"                     json:"position"`
	Product   *Product  `gorm:"foreignKey:ProductID"         json:"product,omitempty"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
