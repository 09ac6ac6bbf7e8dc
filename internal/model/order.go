package model

import "time"

const (
	OrderStatusSubmitted = "SUBMITTED"
	OrderStatusConfirmed = "CONFIRMED"
)

// Order records a submitted perpetual order. Written once after the
// commitment transaction confirms; fill reconciliation happens in a
// separate monitor, not here.
type Order struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"column:user_id;index" json:"user_id"`
	ChainID         int64     `gorm:"column:chain_id" json:"chain_id"`
	Market          string    `gorm:"column:market" json:"market"`
	Side            string    `gorm:"column:side" json:"side"`
	Size            string    `gorm:"column:size" json:"size"`
	Leverage        float64   `gorm:"column:leverage" json:"leverage"`
	RequestedPrice  string    `gorm:"column:requested_price" json:"requested_price"`
	AcceptablePrice string    `gorm:"column:acceptable_price" json:"acceptable_price"`
	FillPrice       string    `gorm:"column:fill_price" json:"fill_price"`
	TxHash          string    `gorm:"column:tx_hash" json:"tx_hash"`
	Status          string    `gorm:"column:status" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}
