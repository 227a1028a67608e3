package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "receipts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const sampleCSV = `fs_receipt_id,fs_receipt_issue_date,org_name,unit_municipality,ai_category,name,price,quantity
r1,2024-01-05 10:00:00,Lidl s.r.o.,Košice,Groceries,Milk,1.05,2
r2,2024-01-06 09:30:00,Kaufland,Košice,Groceries,Bread,2.20,1
r3,2024-02-01 18:00:00,Tesco,Bratislava,Household,Soap,not-a-number,1
`

func TestImportCSVAndList(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	count, err := store.ImportCSV(ctx, writeCSV(t, sampleCSV), false)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	lines, err := store.ListReceiptLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	// Insertion order is preserved.
	assert.Equal(t, "r1", lines[0].ReceiptID)
	assert.Equal(t, "r2", lines[1].ReceiptID)
	assert.Equal(t, "r3", lines[2].ReceiptID)

	first := lines[0]
	assert.Equal(t, "Lidl s.r.o.", first.StoreRawName)
	assert.Equal(t, "Košice", first.City)
	assert.Equal(t, "Groceries", first.Category)
	assert.Equal(t, "Milk", first.ProductName)
	require.NotNil(t, first.UnitPrice)
	assert.Equal(t, 1.05, *first.UnitPrice)
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 2.0, *first.Quantity)

	// Unparseable price loads as NULL, not an error.
	assert.Nil(t, lines[2].UnitPrice)
	require.NotNil(t, lines[2].Quantity)
}

func TestImportCSV_ReplacesExistingRows(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.ImportCSV(ctx, writeCSV(t, sampleCSV), false)
	require.NoError(t, err)

	smaller := `fs_receipt_id,fs_receipt_issue_date,org_name,unit_municipality,ai_category,name,price,quantity
r9,2024-03-01,Billa,Košice,Groceries,Juice,1.99,1
`
	count, err := store.ImportCSV(ctx, writeCSV(t, smaller), false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	total, err := store.CountReceiptLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestImportCSV_MissingColumnsTolerated(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	partial := `fs_receipt_id,org_name,price
r1,Lidl,3.50
`
	count, err := store.ImportCSV(ctx, writeCSV(t, partial), false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	lines, err := store.ListReceiptLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, "Lidl", lines[0].StoreRawName)
	assert.Equal(t, "", lines[0].City)
	assert.Equal(t, "", lines[0].IssuedAt)
	assert.Nil(t, lines[0].Quantity)
	require.NotNil(t, lines[0].UnitPrice)
	assert.Equal(t, 3.50, *lines[0].UnitPrice)
}

func TestListReceiptLines_EmptyTable(t *testing.T) {
	store := newTestStorage(t)

	lines, err := store.ListReceiptLines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)

	// Second run sees the schema already at the expected version.
	assert.NoError(t, store.Migrate(context.Background()))
}
