package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"primaryKey"      json:"id"`
	Name      string    `gorm:"not null"        json:"name"`
	Slug      string    `gorm:"index;not null"  json:"slug"`
	CreatedAt time.Time `                       json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID           uuid.UUID       `gorm:"primaryKey"                 json:"id"`
	Title        string          `gorm:"not null"                   json:"title"`
	Description  string          `                                  json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Availability bool            `gorm:"not null"                   json:"availability"`
	CategoryID   uuid.UUID       `gorm:"index;not null"             json:"categoryId"`
	Category     *Category       `gorm:"foreignKey:CategoryID"      json:"category,omitempty"`
	CreatedAt    time.Time       `                                  json:"createdAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
