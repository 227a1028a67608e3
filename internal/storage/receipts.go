package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"

	"github.com/blocekhq/blocek/internal/common"
	"github.com/blocekhq/blocek/internal/model"
)

// ListReceiptLines returns every stored line in insertion order. Insertion
// order is load-bearing: store clustering is encounter-order dependent, so
// reads must be reproducible. Failures are reported as a source-unavailable
// condition, distinct from an empty (but healthy) table.
func (s *SQLiteStorage) ListReceiptLines(ctx context.Context) ([]model.ReceiptLine, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fs_receipt_id, fs_receipt_issue_date, org_name,
		       unit_municipality, ai_category, name, price, quantity
		FROM receipts
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var lines []model.ReceiptLine
	for rows.Next() {
		var (
			receiptID, issuedAt, orgName    sql.NullString
			municipality, category, product sql.NullString
			price, quantity                 sql.NullFloat64
		)
		if err := rows.Scan(&receiptID, &issuedAt, &orgName,
			&municipality, &category, &product, &price, &quantity); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
		}

		line := model.ReceiptLine{
			ReceiptID:    receiptID.String,
			IssuedAt:     issuedAt.String,
			StoreRawName: orgName.String,
			City:         municipality.String,
			Category:     category.String,
			ProductName:  product.String,
		}
		if price.Valid {
			p := price.Float64
			line.UnitPrice = &p
		}
		if quantity.Valid {
			q := quantity.Float64
			line.Quantity = &q
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}

	return lines, nil
}

// CountReceiptLines returns the number of stored lines.
func (s *SQLiteStorage) CountReceiptLines(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM receipts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}
	return count, nil
}

// csvColumns are the expected receipts export columns. Missing columns are
// tolerated and load as NULL.
var csvColumns = []string{
	"fs_receipt_id",
	"fs_receipt_issue_date",
	"org_name",
	"unit_municipality",
	"ai_category",
	"name",
	"price",
	"quantity",
}

// ImportCSV replaces the receipts table contents with the rows of the given
// CSV export. Unparseable numerics become NULL rather than failing the
// import. Returns the number of imported rows.
func (s *SQLiteStorage) ImportCSV(ctx context.Context, path string, showProgress bool) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(path, "path"); err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[col] = i
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM receipts"); err != nil {
		return 0, fmt.Errorf("failed to clear receipts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO receipts (fs_receipt_id, fs_receipt_issue_date, org_name,
			unit_municipality, ai_category, name, price, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(-1, "importing receipts")
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV row %d: %w", imported+1, err)
		}

		get := func(col string) any {
			i, ok := colIndex[col]
			if !ok || i >= len(record) || record[i] == "" {
				return nil
			}
			return record[i]
		}
		getFloat := func(col string) any {
			v := get(col)
			if v == nil {
				return nil
			}
			f, err := strconv.ParseFloat(v.(string), 64)
			if err != nil {
				common.LogDebug("unparseable numeric, storing null", common.Fields{
					"column": col,
					"value":  v,
					"row":    imported + 1,
				})
				return nil
			}
			return f
		}

		args := make([]any, 0, len(csvColumns))
		for _, col := range csvColumns {
			if col == "price" || col == "quantity" {
				args = append(args, getFloat(col))
			} else {
				args = append(args, get(col))
			}
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", imported+1, err)
		}
		imported++
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return imported, nil
}
