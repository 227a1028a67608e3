// Package aggregate computes spending statistics over receipt lines:
// calendar-period totals, per-store and per-category rollups, and basket
// statistics.
//
// Period totals are returned in whole currency units, rounded half-to-even;
// everything feeding the insights payload stays unrounded. The asymmetry is
// intentional and load-bearing for API compatibility.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/blocekhq/blocek/internal/model"
)

// DateKey is the calendar-date key format used by daily totals.
const DateKey = "2006-01-02"

// roundWhole rounds a summed currency amount to whole units, half to even.
func roundWhole(d decimal.Decimal) int64 {
	return d.RoundBank(0).IntPart()
}

// spendOf returns the line's spend as a decimal, false when price or
// quantity is missing.
func spendOf(l *model.ReceiptLine) (decimal.Decimal, bool) {
	if l.UnitPrice == nil || l.Quantity == nil {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(*l.UnitPrice).Mul(decimal.NewFromFloat(*l.Quantity)), true
}

// ByYear sums spend per calendar year, keyed by the 4-digit year string.
// Lines with unparseable dates or missing numerics are skipped.
func ByYear(lines []model.ReceiptLine) map[string]int64 {
	sums := make(map[string]decimal.Decimal)
	for i := range lines {
		d, ok := lines[i].IssueDate()
		if !ok {
			continue
		}
		spend, ok := spendOf(&lines[i])
		if !ok {
			continue
		}
		year := d.Format("2006")
		sums[year] = sums[year].Add(spend)
	}

	out := make(map[string]int64, len(sums))
	for year, total := range sums {
		out[year] = roundWhole(total)
	}
	return out
}

// ByWeekday sums spend per weekday. All seven full weekday names are always
// present, zero-valued when nothing was spent.
func ByWeekday(lines []model.ReceiptLine) map[string]int64 {
	sums := make(map[string]decimal.Decimal, 7)
	for i := range lines {
		d, ok := lines[i].IssueDate()
		if !ok {
			continue
		}
		spend, ok := spendOf(&lines[i])
		if !ok {
			continue
		}
		day := d.Weekday().String()
		sums[day] = sums[day].Add(spend)
	}

	out := make(map[string]int64, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		out[day.String()] = roundWhole(sums[day.String()])
	}
	return out
}

// ByMonth sums spend per month of year. All twelve full month names are
// always present, zero-valued when nothing was spent.
func ByMonth(lines []model.ReceiptLine) map[string]int64 {
	sums := make(map[string]decimal.Decimal, 12)
	for i := range lines {
		d, ok := lines[i].IssueDate()
		if !ok {
			continue
		}
		spend, ok := spendOf(&lines[i])
		if !ok {
			continue
		}
		month := d.Month().String()
		sums[month] = sums[month].Add(spend)
	}

	out := make(map[string]int64, 12)
	for m := time.January; m <= time.December; m++ {
		out[m.String()] = roundWhole(sums[m.String()])
	}
	return out
}

// DailyTotals sums spend per calendar date, keyed YYYY-MM-DD. Dates with no
// spend are absent; callers treat a missing key as zero.
func DailyTotals(lines []model.ReceiptLine) map[string]int64 {
	sums := make(map[string]decimal.Decimal)
	for i := range lines {
		d, ok := lines[i].IssueDate()
		if !ok {
			continue
		}
		spend, ok := spendOf(&lines[i])
		if !ok {
			continue
		}
		key := d.Format(DateKey)
		sums[key] = sums[key].Add(spend)
	}

	out := make(map[string]int64, len(sums))
	for key, total := range sums {
		out[key] = roundWhole(total)
	}
	return out
}
