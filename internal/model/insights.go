package model

// Insights is the assembled behavioral-insights payload. Currency figures
// here are raw floats, deliberately unrounded; only the period aggregates
// round to whole units.
type Insights struct {
	HomeCity       *string         `json:"home_city"`
	VacationCities []TravelEpisode `json:"vacation_cities"`
	SpendPerStore  []StoreStats    `json:"spend_per_store"`
	CategoryShare  []CategorySpend `json:"category_share"`
	AvgBasket      *float64        `json:"avg_basket"`
	MedianBasket   *float64        `json:"median_basket"`
}
