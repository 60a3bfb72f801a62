package valueobject

import "github.com/shopspring/decimal"

// SafeDiv divides numerator by denominator, returning zero when the
// denominator is zero. Every margin and rate calculation in the system
// goes through this helper so that empty periods never produce NaN or
// infinity in persisted statements.
func SafeDiv(numerator, denominator decimal.Decimal) decimal.Decimal {
	return SafeDivWithFallback(numerator, denominator, decimal.Zero)
}

// SafeDivWithFallback divides numerator by denominator, returning the
// given fallback when the denominator is zero.
func SafeDivWithFallback(numerator, denominator, fallback decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return fallback
	}
	return numerator.Div(denominator)
}

// SafePercent returns numerator/denominator expressed as a percentage,
// or zero when the denominator is zero.
func SafePercent(numerator, denominator decimal.Decimal) decimal.Decimal {
	return SafeDiv(numerator, denominator).Mul(decimal.NewFromInt(100))
}
