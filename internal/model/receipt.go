// Package model defines the core data types shared across the application.
package model

import (
	"strings"
	"time"
)

// Unknown is the sentinel shown for missing merchant names and categories.
const Unknown = "Unknown"

// ReceiptLine is one purchased item from a receipt, exactly as loaded from
// the record source. Numeric fields are pointers because source rows may
// carry nulls; string fields use "" for absent values.
type ReceiptLine struct {
	ReceiptID    string
	IssuedAt     string // raw source timestamp, date part YYYY-MM-DD
	StoreRawName string
	City         string
	Category     string
	ProductName  string
	UnitPrice    *float64
	Quantity     *float64
}

// Spend returns unit price times quantity. The second return is false when
// either component is missing; such lines are excluded from spend aggregates.
func (l *ReceiptLine) Spend() (float64, bool) {
	if l.UnitPrice == nil || l.Quantity == nil {
		return 0, false
	}
	return *l.UnitPrice * *l.Quantity, true
}

// IssueDate parses the calendar date from the raw timestamp. Timestamps come
// in either "2006-01-02 15:04:05" or ISO "T" form; only the date part is
// kept. Unparseable dates return false and the line is silently excluded
// from date-keyed aggregates.
func (l *ReceiptLine) IssueDate() (time.Time, bool) {
	raw := l.IssuedAt
	if i := strings.IndexAny(raw, " T"); i >= 0 {
		raw = raw[:i]
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// AnnotatedLine is a ReceiptLine carrying the derived identity produced by
// the normalization and clustering stages.
type AnnotatedLine struct {
	ReceiptLine
	NormalizedStore string
	StoreGroup      string
}
