package repository

import (
	"context"
	"errors"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"gorm.io/gorm"
)

var ErrWalletNotFound = errors.New("wallet key not found")

type PostgresWalletRepo struct {
	db *gorm.DB
}

func NewPostgresWalletRepo(db *gorm.DB) *PostgresWalletRepo {
	return &PostgresWalletRepo{db: db}
}

// Get loads the encrypted key row for a user. The row is read-only in this
// service; it is written once by wallet setup.
func (r *PostgresWalletRepo) Get(ctx context.Context, userID string) (*model.EncryptedWalletKey, error) {
	var row model.EncryptedWalletKey
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &row, nil
}
