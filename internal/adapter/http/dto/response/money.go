package response

import "github.com/shopspring/decimal"

// money renders an amount with exactly two decimals.
func money(d decimal.Decimal) string { return d.StringFixed(2) }
