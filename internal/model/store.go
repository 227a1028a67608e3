package model

// StoreStats summarizes spending at one store group.
type StoreStats struct {
	StoreGroup       string   `json:"store_group"`
	TopCategory      string   `json:"top_category"`
	TotalSpend       float64  `json:"total_spend"`
	VisitCount       int      `json:"visit_count"`
	MonthsActive     int      `json:"months_active"`
	AvgSpendPerMonth *float64 `json:"avg_spend_per_month"`
	AvgSpendPerVisit *float64 `json:"avg_spend_per_visit"`
}

// CategorySpend is one entry of the category share ranking.
type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

// CitySpend is total spend attributed to one city.
type CitySpend struct {
	City  string  `json:"city"`
	Spend float64 `json:"spend"`
}
