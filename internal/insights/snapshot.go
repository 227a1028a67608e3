// Package insights runs the full derivation pipeline over a snapshot of
// receipt lines and assembles the results into one immutable structure.
//
// The pipeline is normalize -> cluster -> {aggregate, anomaly} -> travel ->
// assemble. Each stage produces a new derived structure; nothing is mutated
// in place, so a built Snapshot is safe for concurrent readers.
package insights

import (
	"time"

	"github.com/google/uuid"

	"github.com/blocekhq/blocek/internal/aggregate"
	"github.com/blocekhq/blocek/internal/anomaly"
	"github.com/blocekhq/blocek/internal/cluster"
	"github.com/blocekhq/blocek/internal/model"
	"github.com/blocekhq/blocek/internal/normalize"
	"github.com/blocekhq/blocek/internal/travel"
)

// Options configures a pipeline run.
type Options struct {
	// Clusterer groups normalized store names. Defaults to the greedy
	// substring strategy.
	Clusterer cluster.Clusterer
}

// Snapshot is the complete derived state for one record set. It is built
// once and never modified afterwards.
type Snapshot struct {
	BuildID string
	BuiltAt time.Time
	Records int

	Insights model.Insights

	ByYear      map[string]int64
	ByWeekday   map[string]int64
	ByMonth     map[string]int64
	dailyTotals map[string]int64

	Anomalies     *anomaly.Report
	WeekendTravel []model.CitySpend
	SpendByCity   []model.CitySpend
}

// Build runs the pipeline over lines and returns the assembled snapshot.
// It never fails: malformed rows are absorbed by the individual stages and
// an empty input produces well-typed empty aggregates.
func Build(lines []model.ReceiptLine, opts Options) *Snapshot {
	clusterer := opts.Clusterer
	if clusterer == nil {
		clusterer = cluster.Substring{}
	}

	normalized := normalize.Lines(lines)
	groups := clusterer.Cluster(cluster.UniqueNormalized(normalized))
	annotated := cluster.Annotate(normalized, groups)

	report := anomaly.Detect(annotated)
	episodes := travel.Extract(annotated, report)
	avgBasket, medianBasket := aggregate.BasketStats(annotated)

	var homeCity *string
	if report.HomeCity != "" {
		h := report.HomeCity
		homeCity = &h
	}

	s := &Snapshot{
		BuildID: uuid.NewString(),
		BuiltAt: time.Now().UTC(),
		Records: len(lines),
		Insights: model.Insights{
			HomeCity:       homeCity,
			VacationCities: episodes,
			SpendPerStore:  aggregate.StoreStats(annotated),
			CategoryShare:  aggregate.CategoryShare(annotated),
			AvgBasket:      avgBasket,
			MedianBasket:   medianBasket,
		},
		ByYear:        aggregate.ByYear(lines),
		ByWeekday:     aggregate.ByWeekday(lines),
		ByMonth:       aggregate.ByMonth(lines),
		dailyTotals:   aggregate.DailyTotals(lines),
		Anomalies:     report,
		WeekendTravel: travel.WeekendSpend(annotated, report),
		SpendByCity:   aggregate.CityTotals(annotated),
	}

	// JSON consumers expect arrays, never null.
	if s.Insights.VacationCities == nil {
		s.Insights.VacationCities = []model.TravelEpisode{}
	}
	if s.Insights.SpendPerStore == nil {
		s.Insights.SpendPerStore = []model.StoreStats{}
	}
	if s.Insights.CategoryShare == nil {
		s.Insights.CategoryShare = []model.CategorySpend{}
	}
	if s.WeekendTravel == nil {
		s.WeekendTravel = []model.CitySpend{}
	}
	if s.SpendByCity == nil {
		s.SpendByCity = []model.CitySpend{}
	}

	return s
}

// TotalByDate returns the integer-rounded spend for one calendar date
// (YYYY-MM-DD). Dates with no purchases total zero.
func (s *Snapshot) TotalByDate(date string) int64 {
	return s.dailyTotals[date]
}
