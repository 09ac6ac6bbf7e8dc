package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trezury_orders_total",
		Help: "The total number of perp orders processed",
	}, []string{"market", "status"})

	ProvisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trezury_account_provisions_total",
		Help: "The total number of trading account provisioning attempts",
	}, []string{"chain", "status"})

	TradeRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trezury_trade_rejects_total",
		Help: "Total pre-trade validation rejections",
	}, []string{"reason"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trezury_latency_bucket",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)
