package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrCartChanged   = errors.New("cart changed during checkout")
	ErrNotOwner      = errors.New("row belongs to another user")
	ErrUnknownSkills = errors.New("unknown skill ids")
	ErrAlreadyExists = errors.New("already exists")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// rowLocks reports whether SELECT ... FOR UPDATE is available.
func (r *GormRepo) rowLocks() bool {
	return r.DB.Dialector.Name() == "postgres"
}
