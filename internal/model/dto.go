package model

// ProvisionRequest asks for a trading account on one chain
type ProvisionRequest struct {
	ChainID int64 `json:"chain_id" binding:"required"`
}

// ProvisionResponse reports the (possibly pre-existing) account
type ProvisionResponse struct {
	AccountID     string `json:"account_id"`
	WalletAddress string `json:"wallet_address"`
	TxHash        string `json:"tx_hash,omitempty"`
	Created       bool   `json:"created"`
}

// TradeRequest represents the incoming JSON body for order placement
type TradeRequest struct {
	ChainID     int64    `json:"chain_id" binding:"required"`
	Market      string   `json:"market" binding:"required"`
	Side        string   `json:"side" binding:"required,oneof=BUY LONG SELL SHORT"`
	Size        float64  `json:"size" binding:"required,gt=0"`
	Leverage    float64  `json:"leverage" binding:"required,gt=0"`
	LimitPrice  *float64 `json:"limit_price,omitempty"`
	SlippageBps *int64   `json:"slippage_bps,omitempty"`
	Password    string   `json:"password,omitempty"`
}

// TradeResponse is returned once the commitment transaction confirmed
type TradeResponse struct {
	OrderID         string `json:"order_id"`
	TxHash          string `json:"tx_hash"`
	Market          string `json:"market"`
	Side            string `json:"side"`
	Size            string `json:"size"`
	AcceptablePrice string `json:"acceptable_price"`
	FillPrice       string `json:"fill_price"`
	Status          string `json:"status"`
}
