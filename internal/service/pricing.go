package service

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var bpsDenominator = decimal.NewFromInt(10000)

// acceptablePrice applies the slippage tolerance to the reference price:
// above it for longs, below it for shorts. 3500 at 50 bps gives 3517.5 long
// and 3482.5 short.
func acceptablePrice(reference decimal.Decimal, isLong bool, slippageBps int64) decimal.Decimal {
	delta := reference.Mul(decimal.NewFromInt(slippageBps)).Div(bpsDenominator)
	if isLong {
		return reference.Add(delta)
	}
	return reference.Sub(delta)
}

// toWad scales a decimal to the protocol's 18-decimal fixed point
func toWad(d decimal.Decimal) *big.Int {
	return d.Shift(18).Round(0).BigInt()
}
