package domain

import (
	"github.com/shopspring/decimal"
)

// RateScale is the number of fractional digits kept for ctr and cvr.
const RateScale = 4

// Rate is a ratio stored as decimal(6,4). It marshals to JSON as an unquoted
// number with exactly RateScale fractional digits.
type Rate struct {
	decimal.Decimal
}

// NewRate returns numerator/denominator rounded half-up to RateScale digits,
// or zero when denominator is zero.
func NewRate(numerator, denominator int64) Rate {
	if denominator == 0 {
		return Rate{Decimal: decimal.Zero}
	}
	return Rate{Decimal: decimal.NewFromInt(numerator).DivRound(decimal.NewFromInt(denominator), RateScale)}
}

// MustRate parses a decimal literal; meant for tests and constants.
func MustRate(s string) Rate {
	return Rate{Decimal: decimal.RequireFromString(s)}
}

func (r Rate) String() string { return r.StringFixed(RateScale) }

// Equal compares numeric value, ignoring representation scale.
func (r Rate) Equal(o Rate) bool { return r.Decimal.Equal(o.Decimal) }

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.StringFixed(RateScale)), nil
}
