package travel

import (
	"sort"
	"time"

	"github.com/blocekhq/blocek/internal/anomaly"
	"github.com/blocekhq/blocek/internal/model"
)

// WeekendSpend ranks non-home cities by spend on Saturday and Sunday
// purchases among location-anomalous lines, descending. A proxy for "where
// do weekend getaways cost the most".
func WeekendSpend(lines []model.AnnotatedLine, report *anomaly.Report) []model.CitySpend {
	sums := make(map[string]float64)
	var order []string

	for i := range lines {
		if !report.Flags[i].Location {
			continue
		}
		l := &lines[i]
		if l.City == "" || l.City == report.HomeCity {
			continue
		}
		d, ok := l.IssueDate()
		if !ok {
			continue
		}
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			continue
		}
		spend, ok := l.Spend()
		if !ok {
			continue
		}
		if _, seen := sums[l.City]; !seen {
			order = append(order, l.City)
		}
		sums[l.City] += spend
	}

	ranked := make([]model.CitySpend, 0, len(order))
	for _, city := range order {
		ranked = append(ranked, model.CitySpend{City: city, Spend: sums[city]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Spend > ranked[j].Spend
	})
	return ranked
}
