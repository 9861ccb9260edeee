package model

import "github.com/shopspring/decimal"

// RoundCents rounds a currency amount half away from zero to two decimals.
func RoundCents(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
