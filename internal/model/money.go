package model

import "github.com/shopspring/decimal"

func init() {
	// Clients read amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// Percent returns part as a percentage of whole, rounded to 2 places.
// A non-positive whole yields 0.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

// PercentChange compares a period against the one before it.
// Growth from nothing counts as 100%, nothing to nothing as 0%.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	switch {
	case previous.IsPositive():
		return current.Sub(previous).Mul(hundred).Div(previous).Round(2)
	case current.IsPositive():
		return hundred
	default:
		return decimal.Zero
	}
}

// PeriodTotal is a SUM/COUNT pair over one table and window.
type PeriodTotal struct {
	Total decimal.Decimal `db:"total"`
	Count int             `db:"count"`
}
