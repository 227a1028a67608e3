// Package service defines the interfaces the application's surfaces depend on.
package service

import (
	"context"

	"github.com/blocekhq/blocek/internal/model"
)

// RecordSource is the contract for the receipt record store. The pipeline
// reads one full snapshot of records and never holds the source open past
// that read.
type RecordSource interface {
	// ListReceiptLines returns every stored receipt line in insertion
	// order. The order is part of the contract: downstream clustering is
	// encounter-order dependent.
	ListReceiptLines(ctx context.Context) ([]model.ReceiptLine, error)
	// CountReceiptLines returns the number of stored lines. Health
	// checks use it as a cheap liveness probe of the source.
	CountReceiptLines(ctx context.Context) (int, error)
	Close() error
}
