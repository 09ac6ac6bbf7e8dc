package model

// RateLimitConfig defines the HTTP-layer QPS budget for a user
type RateLimitConfig struct {
	QPS   float64 `json:"qps"`
	Burst int     `json:"burst"`
}

// User represents an API consumer of the gateway. Wallet keys, trading
// accounts and orders are persisted separately and keyed by user id.
type User struct {
	ID     string          `json:"id"`
	APIKey string          `json:"api_key"`
	Rate   RateLimitConfig `json:"rate_limit"`
}
