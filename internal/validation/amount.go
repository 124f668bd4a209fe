package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount fits NUMERIC(12, 2).
var maxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount requires a positive amount with at most two decimal places.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s must be greater than 0", field)
	}

	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%s must have at most 2 decimal places", field)
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%s is too large", field)
	}

	return nil
}

// ValidateLabel checks a required free-text field such as a source or category.
func ValidateLabel(field, value string, max int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}

	if len(trimmed) > max {
		return fmt.Errorf("%s is too long (max %d characters)", field, max)
	}

	return nil
}
