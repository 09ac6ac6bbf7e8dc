package repository

import (
	"context"
	"errors"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAccountNotFound = errors.New("trading account not found")

type PostgresAccountRepo struct {
	db *gorm.DB
}

func NewPostgresAccountRepo(db *gorm.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

func (r *PostgresAccountRepo) Get(ctx context.Context, userID string, chainID int64) (*model.TradingAccount, error) {
	var acc model.TradingAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND chain_id = ?", userID, chainID).
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// CreateOrGet inserts the account row, tolerating a concurrent winner: on a
// (user_id, chain_id) conflict it re-reads and returns the row that won.
func (r *PostgresAccountRepo) CreateOrGet(ctx context.Context, acc *model.TradingAccount) (*model.TradingAccount, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chain_id"}},
			DoNothing: true,
		}).
		Create(acc)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.Get(ctx, acc.UserID, acc.ChainID)
	}
	return acc, nil
}

func (r *PostgresAccountRepo) ListByUser(ctx context.Context, userID string) ([]*model.TradingAccount, error) {
	var accounts []*model.TradingAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("chain_id").
		Find(&accounts).Error
	return accounts, err
}
