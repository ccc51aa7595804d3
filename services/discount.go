package services

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns round(100 * (1 - discounted/original)) with
// round-half-to-even. A discounted price above the original yields a negative
// percent. Non-positive originals yield 0.
func DiscountPercent(original, discounted decimal.Decimal) int {
	if !original.IsPositive() {
		return 0
	}
	pct := original.Sub(discounted).Mul(hundred).DivRound(original, 16)
	return int(pct.RoundBank(0).IntPart())
}

// DiscountRate is the unrounded discount in percent, used as a sort key.
func DiscountRate(original, discounted decimal.Decimal) float64 {
	if !original.IsPositive() {
		return 0
	}
	return original.Sub(discounted).Mul(hundred).DivRound(original, 16).InexactFloat64()
}
