// Package service implements account provisioning and order execution on
// top of the chain gateway and the persistence layer.
package service

import (
	"context"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
)

// Repository interfaces are defined here, on the consumer side; the
// postgres implementations live in internal/repository.

type WalletRepo interface {
	Get(ctx context.Context, userID string) (*model.EncryptedWalletKey, error)
}

type AccountRepo interface {
	Get(ctx context.Context, userID string, chainID int64) (*model.TradingAccount, error)
	CreateOrGet(ctx context.Context, acc *model.TradingAccount) (*model.TradingAccount, error)
	ListByUser(ctx context.Context, userID string) ([]*model.TradingAccount, error)
}

type OrderRepo interface {
	Insert(ctx context.Context, order *model.Order) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Order, error)
}
