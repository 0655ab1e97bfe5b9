package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindUser      Kind = "user"
	KindClient    Kind = "client"
	KindDeveloper Kind = "developer"
)

func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindClient, KindDeveloper:
		return true
	}
	return false
}

// Account is a registered principal of any kind. Email is unique per kind.
type Account struct {
	ID           uuid.UUID `gorm:"primaryKey"                                 json:"id"`
	Kind         Kind      `gorm:"size:16;not null;uniqueIndex:idx_kind_email" json:"kind"`
	Name         string    `gorm:"not null"                                   json:"name"`
	Email        string    `gorm:"not null;uniqueIndex:idx_kind_email"        json:"email"`
	PasswordHash string    `gorm:"not null"                                   json:"-"`
	CreatedAt    time.Time `                                                  json:"createdAt"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
