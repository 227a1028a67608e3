package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blocekhq/blocek/internal/model"
)

func line(date string, price, qty float64) model.ReceiptLine {
	return model.ReceiptLine{
		IssuedAt:  date,
		UnitPrice: &price,
		Quantity:  &qty,
	}
}

func TestByYear(t *testing.T) {
	lines := []model.ReceiptLine{
		line("2024-01-01 10:30:00", 10.0, 1),
		line("2024-01-01 11:00:00", 5.0, 1),
		line("2024-02-01 09:00:00", 3.0, 1),
	}

	assert.Equal(t, map[string]int64{"2024": 18}, ByYear(lines))
}

func TestByYear_SkipsMalformedRows(t *testing.T) {
	price := 7.0
	qty := 1.0
	lines := []model.ReceiptLine{
		line("2024-01-01", 10.0, 1),
		{IssuedAt: "not-a-date", UnitPrice: &price, Quantity: &qty},
		{IssuedAt: "2024-01-02", UnitPrice: nil, Quantity: &qty},
		{IssuedAt: "2024-01-03", UnitPrice: &price, Quantity: nil},
	}

	assert.Equal(t, map[string]int64{"2024": 10}, ByYear(lines))
}

func TestByYear_MultipliesQuantity(t *testing.T) {
	lines := []model.ReceiptLine{
		line("2023-05-05", 2.5, 4),
	}

	assert.Equal(t, map[string]int64{"2023": 10}, ByYear(lines))
}

func TestByWeekday_AllDaysPresent(t *testing.T) {
	// 2024-01-01 is a Monday.
	lines := []model.ReceiptLine{
		line("2024-01-01", 10.0, 1),
		line("2024-01-02", 5.0, 1),
	}

	got := ByWeekday(lines)

	assert.Len(t, got, 7)
	assert.Equal(t, int64(10), got["Monday"])
	assert.Equal(t, int64(5), got["Tuesday"])
	assert.Equal(t, int64(0), got["Sunday"])
	assert.Equal(t, int64(0), got["Saturday"])
}

func TestByMonth_AllMonthsPresent(t *testing.T) {
	lines := []model.ReceiptLine{
		line("2024-01-01", 10.0, 1),
		line("2024-01-15", 5.0, 1),
		line("2024-02-01", 3.0, 1),
	}

	got := ByMonth(lines)

	assert.Len(t, got, 12)
	assert.Equal(t, int64(15), got["January"])
	assert.Equal(t, int64(3), got["February"])
	for _, m := range []string{"March", "April", "May", "June", "July",
		"August", "September", "October", "November", "December"} {
		assert.Equal(t, int64(0), got[m], m)
	}
}

func TestRounding_HalfToEven(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{3.5, 4},
		{2.4, 2},
		{2.6, 3},
	}

	for _, tt := range tests {
		got := ByYear([]model.ReceiptLine{line("2024-06-01", tt.price, 1)})
		assert.Equal(t, map[string]int64{"2024": tt.want}, got, "price %v", tt.price)
	}
}

func TestDailyTotals(t *testing.T) {
	lines := []model.ReceiptLine{
		line("2024-01-01 08:00:00", 10.0, 1),
		line("2024-01-01 19:00:00", 5.0, 1),
		line("2024-02-01", 3.0, 1),
	}

	got := DailyTotals(lines)

	assert.Equal(t, int64(15), got["2024-01-01"])
	assert.Equal(t, int64(3), got["2024-02-01"])
	_, ok := got["2024-03-01"]
	assert.False(t, ok)
}

func TestPeriodAggregates_EmptyInput(t *testing.T) {
	assert.Empty(t, ByYear(nil))
	assert.Len(t, ByWeekday(nil), 7)
	assert.Len(t, ByMonth(nil), 12)
	assert.Empty(t, DailyTotals(nil))
}
