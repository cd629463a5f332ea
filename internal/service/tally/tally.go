// Package tally sums liters and money in decimal so totals reconcile exactly
// with the per-day buckets they are built from.
package tally

import "github.com/shopspring/decimal"

// Sum accumulates float inputs without binary rounding drift.
type Sum struct {
	total decimal.Decimal
}

// Add adds v to the running total.
func (s *Sum) Add(v float64) {
	s.total = s.total.Add(decimal.NewFromFloat(v))
}

// Decimal returns the running total.
func (s Sum) Decimal() decimal.Decimal {
	return s.total
}

// Float returns the running total as a float64.
func (s Sum) Float() float64 {
	return s.total.InexactFloat64()
}

// Liters rounds a total summed by the database to whole milliliters,
// dropping the float drift SQL SUM or $group accumulate.
func Liters(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(3)
}

// Amount returns liters × price rounded to 2 decimal places.
func Amount(liters decimal.Decimal, price float64) decimal.Decimal {
	return liters.Mul(decimal.NewFromFloat(price)).Round(2)
}

// Money rounds d to 2 decimal places and returns it as a float64.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Percent returns part/whole × 100 rounded to 2 decimal places, or 0 when
// whole is zero.
func Percent(part, whole float64) float64 {
	w := decimal.NewFromFloat(whole)
	if w.IsZero() {
		return 0
	}
	return decimal.NewFromFloat(part).Div(w).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}
