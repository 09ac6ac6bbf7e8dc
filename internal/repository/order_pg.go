package repository

import (
	"context"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
	"gorm.io/gorm"
)

type PostgresOrderRepo struct {
	db *gorm.DB
}

func NewPostgresOrderRepo(db *gorm.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

func (r *PostgresOrderRepo) Insert(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PostgresOrderRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
