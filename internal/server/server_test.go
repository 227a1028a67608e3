package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocekhq/blocek/internal/common"
	"github.com/blocekhq/blocek/internal/insights"
	"github.com/blocekhq/blocek/internal/model"
)

// fakeSource serves a fixed record set, or fails like a broken database.
type fakeSource struct {
	lines []model.ReceiptLine
	fail  bool
}

func (f *fakeSource) ListReceiptLines(_ context.Context) ([]model.ReceiptLine, error) {
	if f.fail {
		return nil, fmt.Errorf("%w: disk on fire", common.ErrSourceUnavailable)
	}
	return f.lines, nil
}

func (f *fakeSource) CountReceiptLines(_ context.Context) (int, error) {
	if f.fail {
		return 0, fmt.Errorf("%w: disk on fire", common.ErrSourceUnavailable)
	}
	return len(f.lines), nil
}

func (f *fakeSource) Close() error { return nil }

func sampleLines() []model.ReceiptLine {
	price1, price2 := 10.0, 5.0
	qty := 1.0
	return []model.ReceiptLine{
		{
			ReceiptID: "r1", IssuedAt: "2024-01-01 10:00:00",
			StoreRawName: "Lidl", City: "Košice", Category: "Groceries",
			ProductName: "Milk", UnitPrice: &price1, Quantity: &qty,
		},
		{
			ReceiptID: "r2", IssuedAt: "2024-01-01 12:00:00",
			StoreRawName: "Lidl", City: "Košice", Category: "Groceries",
			ProductName: "Bread", UnitPrice: &price2, Quantity: &qty,
		},
	}
}

func newTestServer(t *testing.T, source *fakeSource) *Server {
	t.Helper()

	snap := insights.Build(source.lines, insights.Options{})
	return New(insights.NewHolder(snap), source, insights.Options{},
		[]string{"http://localhost:5173"})
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSortByYear(t *testing.T) {
	srv := newTestServer(t, &fakeSource{lines: sampleLines()})

	rec := get(t, srv.Handler(), "/api/date/sort_by_year")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]int64{"2024": 15}, body)
}

func TestSortByWeek_AllDaysPresent(t *testing.T) {
	srv := newTestServer(t, &fakeSource{})

	rec := get(t, srv.Handler(), "/api/date/sort_by_week")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 7)
	assert.Equal(t, int64(0), body["Monday"])
}

func TestSortByMonth_AllMonthsPresent(t *testing.T) {
	srv := newTestServer(t, &fakeSource{})

	rec := get(t, srv.Handler(), "/api/date/sort_by_month")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 12)
}

func TestTotalByDate(t *testing.T) {
	srv := newTestServer(t, &fakeSource{lines: sampleLines()})

	rec := get(t, srv.Handler(), "/api/date/total_by_date?date=2024-01-01")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Date  string `json:"date"`
		Total int64  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-01-01", body.Date)
	assert.Equal(t, int64(15), body.Total)
}

func TestTotalByDate_BadDate(t *testing.T) {
	srv := newTestServer(t, &fakeSource{})

	rec := get(t, srv.Handler(), "/api/date/total_by_date?date=January")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsights_EmptyDatasetIsWellTyped(t *testing.T) {
	srv := newTestServer(t, &fakeSource{})

	rec := get(t, srv.Handler(), "/api/date/insights")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["home_city"])
	assert.Equal(t, []any{}, body["vacation_cities"])
	assert.Equal(t, []any{}, body["spend_per_store"])
}

func TestRebuild_PublishesNewSnapshot(t *testing.T) {
	source := &fakeSource{lines: sampleLines()}
	srv := newTestServer(t, source)
	handler := srv.Handler()

	before := srv.holder.Current().BuildID

	req := httptest.NewRequest(http.MethodPost, "/api/admin/rebuild", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, before, srv.holder.Current().BuildID)
}

func TestRebuild_SourceUnavailableIs503(t *testing.T) {
	source := &fakeSource{fail: true}
	srv := newTestServer(t, source)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/rebuild", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "record source unavailable")
}

func TestCORS_AllowedOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/date/insights", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOriginGetsNoHeader(t *testing.T) {
	srv := newTestServer(t, &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/date/insights", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeSource{lines: sampleLines()})

	rec := get(t, srv.Handler(), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["records"])
	assert.Equal(t, float64(2), body["stored_records"])
}

func TestHealth_SourceDownReportsDegraded(t *testing.T) {
	srv := newTestServer(t, &fakeSource{fail: true})

	rec := get(t, srv.Handler(), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.NotContains(t, body, "stored_records")
}
