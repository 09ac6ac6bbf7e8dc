package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAcceptablePrice(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		isLong bool
		bps    int64
		want   string
	}{
		{"long adds slippage", "3500", true, 50, "3517.5"},
		{"short subtracts slippage", "3500", false, 50, "3482.5"},
		{"zero bps passes through", "3500", true, 0, "3500"},
		{"wide tolerance", "100", false, 1000, "90"},
		{"fractional reference", "0.5", true, 50, "0.5025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := decimal.RequireFromString(tt.ref)
			got := acceptablePrice(ref, tt.isLong, tt.bps)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestToWad(t *testing.T) {
	assert.Equal(t, "2000000000000000000", toWad(decimal.NewFromInt(2)).String())
	assert.Equal(t, "3517500000000000000000", toWad(decimal.RequireFromString("3517.5")).String())
	assert.Equal(t, "-2000000000000000000", toWad(decimal.NewFromInt(-2)).String())
}
