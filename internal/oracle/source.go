// Package oracle supplies reference prices for acceptable-price computation.
package oracle

import (
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

// PriceSource answers the latest reference price for a market key
type PriceSource interface {
	Price(market string) (decimal.Decimal, bool)
}

// StaticSource serves configured prices. It exists as the fallback of last
// resort: a static table is not a price oracle, and its use is logged so it
// never masquerades as live data.
type StaticSource struct {
	prices map[string]decimal.Decimal
}

func NewStaticSource(prices map[string]float64) *StaticSource {
	s := &StaticSource{prices: make(map[string]decimal.Decimal, len(prices))}
	for market, price := range prices {
		s.prices[market] = decimal.NewFromFloat(price)
	}
	if len(s.prices) > 0 {
		logger.Warn("static reference prices configured, not a live oracle", "markets", len(s.prices))
	}
	return s
}

func (s *StaticSource) Price(market string) (decimal.Decimal, bool) {
	p, ok := s.prices[market]
	return p, ok
}

// Layered tries each source in order, freshest first
type Layered struct {
	sources []PriceSource
}

func NewLayered(sources ...PriceSource) *Layered {
	return &Layered{sources: sources}
}

func (l *Layered) Price(market string) (decimal.Decimal, bool) {
	for _, src := range l.sources {
		if src == nil {
			continue
		}
		if p, ok := src.Price(market); ok {
			return p, true
		}
	}
	return decimal.Zero, false
}
