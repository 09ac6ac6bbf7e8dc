package model

import "time"

// TradingAccount maps (user, chain) to the on-chain account identifier
// owned by the user's wallet. At most one row per (user, chain); the unique
// index is what closes the provisioning check-then-act race.
type TradingAccount struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UserID        string    `gorm:"column:user_id;uniqueIndex:idx_user_chain" json:"user_id"`
	ChainID       int64     `gorm:"column:chain_id;uniqueIndex:idx_user_chain" json:"chain_id"`
	AccountID     string    `gorm:"column:account_id" json:"account_id"`
	WalletAddress string    `gorm:"column:wallet_address" json:"wallet_address"`
	TxHash        string    `gorm:"column:tx_hash" json:"tx_hash"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TradingAccount) TableName() string {
	return "trading_accounts"
}
