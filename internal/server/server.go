// Package server exposes the derived insights over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/blocekhq/blocek/internal/aggregate"
	"github.com/blocekhq/blocek/internal/anomaly"
	"github.com/blocekhq/blocek/internal/common"
	"github.com/blocekhq/blocek/internal/insights"
	"github.com/blocekhq/blocek/internal/service"
)

// Server serves the snapshot currently published by the holder. Handlers
// only read; the one write path (rebuild) publishes a whole new snapshot.
type Server struct {
	holder  *insights.Holder
	source  service.RecordSource
	opts    insights.Options
	origins map[string]bool
}

// New creates a server over the given snapshot holder and record source.
func New(holder *insights.Holder, source service.RecordSource, opts insights.Options, allowedOrigins []string) *Server {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Server{
		holder:  holder,
		source:  source,
		opts:    opts,
		origins: origins,
	}
}

// Handler returns the route table wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/date/sort_by_year", s.handleSortByYear)
	mux.HandleFunc("GET /api/date/sort_by_week", s.handleSortByWeek)
	mux.HandleFunc("GET /api/date/sort_by_month", s.handleSortByMonth)
	mux.HandleFunc("GET /api/date/total_by_date", s.handleTotalByDate)
	mux.HandleFunc("GET /api/date/insights", s.handleInsights)
	mux.HandleFunc("GET /api/date/weekend_travel", s.handleWeekendTravel)
	mux.HandleFunc("GET /api/date/spend_by_city", s.handleSpendByCity)
	mux.HandleFunc("GET /api/date/anomalies", s.handleAnomalies)
	mux.HandleFunc("POST /api/admin/rebuild", s.handleRebuild)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.cors(mux)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		common.LogError(err, "failed to encode response", nil)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleSortByYear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().ByYear)
}

func (s *Server) handleSortByWeek(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().ByWeekday)
}

func (s *Server) handleSortByMonth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().ByMonth)
}

func (s *Server) handleTotalByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := time.Parse(aggregate.DateKey, date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date,
		"total": s.holder.Current().TotalByDate(date),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().Insights)
}

func (s *Server) handleWeekendTravel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().WeekendTravel)
}

func (s *Server) handleSpendByCity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().SpendByCity)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Current()
	report := snap.Anomalies

	var quantity, price, location int
	for _, f := range report.Flags {
		if f.Quantity {
			quantity++
		}
		if f.Price {
			price++
		}
		if f.Location {
			location++
		}
	}

	duplicates := report.Duplicates
	if duplicates == nil {
		duplicates = []anomaly.DuplicateGroup{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"quantity_anomalies": quantity,
		"price_anomalies":    price,
		"location_anomalies": location,
		"duplicate_groups":   duplicates,
	})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	lines, err := s.source.ListReceiptLines(r.Context())
	if err != nil {
		if common.IsSourceUnavailable(err) {
			writeError(w, http.StatusServiceUnavailable, "record source unavailable")
		} else {
			writeError(w, http.StatusInternalServerError, "rebuild failed")
		}
		common.LogError(err, "snapshot rebuild failed", nil)
		return
	}

	snap := insights.Build(lines, s.opts)
	s.holder.Publish(snap)
	common.LogInfo("snapshot rebuilt", common.Fields{
		"build_id": snap.BuildID,
		"records":  snap.Records,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"build_id": snap.BuildID,
		"built_at": snap.BuiltAt,
		"records":  snap.Records,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Current()
	payload := map[string]any{
		"status":   "ok",
		"build_id": snap.BuildID,
		"built_at": snap.BuiltAt,
		"records":  snap.Records,
	}

	// The snapshot always serves, but a dead source means rebuilds would
	// fail. Surface that without failing the probe.
	stored, err := s.source.CountReceiptLines(r.Context())
	if err != nil {
		payload["status"] = "degraded"
	} else {
		payload["stored_records"] = stored
	}

	writeJSON(w, http.StatusOK, payload)
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
