// Package anomaly flags receipt lines that deviate from dataset-derived
// baselines: oversized quantities, prices far above a product's median, and
// purchases away from the inferred home city.
package anomaly

import (
	"sort"

	"github.com/blocekhq/blocek/internal/aggregate"
	"github.com/blocekhq/blocek/internal/model"
)

// QuantityThreshold is the fixed per-line quantity above which a line is
// quantity-anomalous.
const QuantityThreshold = 5.0

// PriceMedianFactor flags a line whose unit price exceeds this multiple of
// the product's median unit price.
const PriceMedianFactor = 2.0

// Flags holds the per-line anomaly booleans, parallel to the input lines.
type Flags struct {
	Quantity bool `json:"quantity_anomaly"`
	Price    bool `json:"price_anomaly"`
	Location bool `json:"location_anomaly"`
}

// DuplicateGroup is a set of lines sharing (product, unit price, receipt).
// Lines without a recorded price match each other, so a group's UnitPrice
// can be nil. Duplicates are symmetric: no line in the group is the
// canonical one, so whole groups are reported rather than per-line flags.
type DuplicateGroup struct {
	ProductName string   `json:"product_name"`
	UnitPrice   *float64 `json:"unit_price"`
	ReceiptID   string   `json:"receipt_id"`
	LineIndexes []int    `json:"line_indexes"`
}

// Report is the full anomaly output for one dataset snapshot.
type Report struct {
	// HomeCity is the most frequent purchase city, "" when no line carries
	// city data. Without a home city no line is location-anomalous.
	HomeCity string
	// Flags is parallel to the input lines.
	Flags []Flags
	// Duplicates lists groups of potential duplicate lines.
	Duplicates []DuplicateGroup
}

// HomeCity returns the most frequent city across lines, ties broken by
// lexicographic order. Returns "" when no line has a city.
func HomeCity(lines []model.AnnotatedLine) string {
	counts := make(map[string]int)
	for i := range lines {
		if lines[i].City != "" {
			counts[lines[i].City]++
		}
	}

	home := ""
	best := 0
	for city, n := range counts {
		if n > best || (n == best && best > 0 && city < home) {
			home = city
			best = n
		}
	}
	return home
}

// Detect computes anomaly flags and duplicate groups for the dataset.
func Detect(lines []model.AnnotatedLine) *Report {
	report := &Report{
		HomeCity: HomeCity(lines),
		Flags:    make([]Flags, len(lines)),
	}

	medians := productMedians(lines)

	for i := range lines {
		l := &lines[i]

		if l.Quantity != nil && *l.Quantity > QuantityThreshold {
			report.Flags[i].Quantity = true
		}
		if l.UnitPrice != nil && l.ProductName != "" {
			if med, ok := medians[l.ProductName]; ok && *l.UnitPrice > PriceMedianFactor*med {
				report.Flags[i].Price = true
			}
		}
		if report.HomeCity != "" && l.City != "" && l.City != report.HomeCity {
			report.Flags[i].Location = true
		}
	}

	report.Duplicates = duplicateGroups(lines)
	return report
}

// productMedians computes the median unit price per product name over lines
// with a known price. A product seen once has its own price as median and
// can never be price-anomalous.
func productMedians(lines []model.AnnotatedLine) map[string]float64 {
	prices := make(map[string][]float64)
	for i := range lines {
		l := &lines[i]
		if l.ProductName == "" || l.UnitPrice == nil {
			continue
		}
		prices[l.ProductName] = append(prices[l.ProductName], *l.UnitPrice)
	}

	medians := make(map[string]float64, len(prices))
	for product, ps := range prices {
		medians[product] = aggregate.Median(ps)
	}
	return medians
}

type dupKey struct {
	product   string
	price     float64
	hasPrice  bool
	receiptID string
}

func duplicateGroups(lines []model.AnnotatedLine) []DuplicateGroup {
	byKey := make(map[dupKey][]int)
	var order []dupKey

	for i := range lines {
		l := &lines[i]
		key := dupKey{product: l.ProductName, receiptID: l.ReceiptID}
		if l.UnitPrice != nil {
			key.price = *l.UnitPrice
			key.hasPrice = true
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], i)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		idx := byKey[key]
		if len(idx) < 2 {
			continue
		}
		sort.Ints(idx)
		var price *float64
		if key.hasPrice {
			p := key.price
			price = &p
		}
		groups = append(groups, DuplicateGroup{
			ProductName: key.product,
			UnitPrice:   price,
			ReceiptID:   key.receiptID,
			LineIndexes: idx,
		})
	}
	return groups
}
