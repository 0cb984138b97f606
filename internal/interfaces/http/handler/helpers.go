package handler

import "github.com/shopspring/decimal"

// parseDecimal parses a decimal amount from its string form
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
