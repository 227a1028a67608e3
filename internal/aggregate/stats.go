package aggregate

import (
	"sort"

	"github.com/blocekhq/blocek/internal/model"
)

// counter tracks occurrence counts while remembering first-encounter order,
// which breaks ties deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns the most frequent key; ties go to the first-encountered key.
// Empty counter returns "".
func (c *counter) top() string {
	best := ""
	bestCount := 0
	for _, key := range c.order {
		if c.counts[key] > bestCount {
			best = key
			bestCount = c.counts[key]
		}
	}
	return best
}

type storeAccum struct {
	group      string
	total      float64
	datedTotal float64
	receipts   map[string]bool
	months     map[string]bool
	categories *counter
}

// StoreStats computes per-store-group statistics from annotated lines.
// Results are sorted by group name for stable output.
func StoreStats(lines []model.AnnotatedLine) []model.StoreStats {
	accums := make(map[string]*storeAccum)
	var order []string

	for i := range lines {
		l := &lines[i]
		acc, ok := accums[l.StoreGroup]
		if !ok {
			acc = &storeAccum{
				group:      l.StoreGroup,
				receipts:   make(map[string]bool),
				months:     make(map[string]bool),
				categories: newCounter(),
			}
			accums[l.StoreGroup] = acc
			order = append(order, l.StoreGroup)
		}

		spend, hasSpend := l.Spend()
		if hasSpend {
			acc.total += spend
		}
		if l.ReceiptID != "" {
			acc.receipts[l.ReceiptID] = true
		}
		if l.Category != "" {
			acc.categories.add(l.Category)
		}
		if d, ok := l.IssueDate(); ok {
			acc.months[d.Format("2006-01")] = true
			if hasSpend {
				acc.datedTotal += spend
			}
		}
	}

	stats := make([]model.StoreStats, 0, len(order))
	for _, group := range order {
		acc := accums[group]

		s := model.StoreStats{
			StoreGroup:   group,
			TotalSpend:   acc.total,
			VisitCount:   len(acc.receipts),
			MonthsActive: len(acc.months),
		}
		if s.TopCategory = acc.categories.top(); s.TopCategory == "" {
			s.TopCategory = model.Unknown
		}
		if s.VisitCount > 0 {
			perVisit := acc.total / float64(s.VisitCount)
			s.AvgSpendPerVisit = &perVisit
		}
		if s.MonthsActive > 0 {
			perMonth := acc.datedTotal / float64(s.MonthsActive)
			s.AvgSpendPerMonth = &perMonth
		}
		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].StoreGroup < stats[j].StoreGroup
	})
	return stats
}

// CategoryShare ranks categories by total spend, descending. Lines without
// a category are excluded; ties keep first-encounter order.
func CategoryShare(lines []model.AnnotatedLine) []model.CategorySpend {
	sums := make(map[string]float64)
	var order []string

	for i := range lines {
		l := &lines[i]
		if l.Category == "" {
			continue
		}
		spend, ok := l.Spend()
		if !ok {
			continue
		}
		if _, seen := sums[l.Category]; !seen {
			order = append(order, l.Category)
		}
		sums[l.Category] += spend
	}

	share := make([]model.CategorySpend, 0, len(order))
	for _, cat := range order {
		share = append(share, model.CategorySpend{Category: cat, Spend: sums[cat]})
	}
	sort.SliceStable(share, func(i, j int) bool {
		return share[i].Spend > share[j].Spend
	})
	return share
}

// CityTotals sums spend per city, sorted by city name. Lines without a city
// are excluded.
func CityTotals(lines []model.AnnotatedLine) []model.CitySpend {
	sums := make(map[string]float64)
	var order []string

	for i := range lines {
		l := &lines[i]
		if l.City == "" {
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

	totals := make([]model.CitySpend, 0, len(order))
	for _, city := range order {
		totals = append(totals, model.CitySpend{City: city, Spend: sums[city]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].City < totals[j].City
	})
	return totals
}

// BasketStats returns the mean and median of per-receipt total spend. A
// basket is every line sharing one receipt ID; with no baskets both results
// are nil.
func BasketStats(lines []model.AnnotatedLine) (mean, median *float64) {
	sums := make(map[string]float64)
	var order []string

	for i := range lines {
		l := &lines[i]
		if l.ReceiptID == "" {
			continue
		}
		if _, seen := sums[l.ReceiptID]; !seen {
			order = append(order, l.ReceiptID)
			sums[l.ReceiptID] = 0
		}
		if spend, ok := l.Spend(); ok {
			sums[l.ReceiptID] += spend
		}
	}

	if len(order) == 0 {
		return nil, nil
	}

	totals := make([]float64, 0, len(order))
	var sum float64
	for _, id := range order {
		totals = append(totals, sums[id])
		sum += sums[id]
	}

	m := sum / float64(len(totals))
	med := Median(totals)
	return &m, &med
}

// Median returns the median of values, interpolating between the two middle
// values for even-length input. Panics on empty input; callers guard.
func Median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
