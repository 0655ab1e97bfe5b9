package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/marketplace/internal/models"
)

// CreateAccountIfNotExists inserts a unless an account of the same kind and
// email is already stored.
func (r *GormRepo) CreateAccountIfNotExists(ctx context.Context, a *models.Account) error {
	tx := r.DB.WithContext(ctx).
		Where("kind = ? AND email = ?", a.Kind, a.Email).
		FirstOrCreate(a)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *GormRepo) GetAccountByEmail(ctx context.Context, kind models.Kind, email string) (*models.Account, error) {
	var a models.Account
	if err := r.DB.WithContext(ctx).Where("kind = ? AND email = ?", kind, email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
