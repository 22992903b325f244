package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of every stored amount (decimal(12,2) columns).
const MoneyPlaces = 2

// Money rounds d to the stored scale. Amounts are normalised on the way in
// so that quantity × unit price and the sum of subtotals stay exact after a
// round-trip through the database.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatMoney renders d with exactly two decimals ("30.00").
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
