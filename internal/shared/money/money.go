// Package money renders stored amounts. Amounts are integers in cents.
package money

import "github.com/shopspring/decimal"

// Format renders cents as a fixed two-decimal string, e.g. -1050 -> "-10.50".
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Sum totals cents as a decimal in currency units.
func Sum(cents ...int64) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cents {
		total = total.Add(decimal.New(c, -2))
	}
	return total
}
