package utils

import "github.com/shopspring/decimal"

// Money rounds a currency value to cents.
func Money(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// MultiplyMoney returns v*factor rounded to cents.
func MultiplyMoney(v float64, factor int64) float64 {
	f, _ := decimal.NewFromFloat(v).Mul(decimal.NewFromInt(factor)).Round(2).Float64()
	return f
}
