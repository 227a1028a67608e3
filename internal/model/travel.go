package model

// TravelEpisode is an inferred multi-day trip: the longest block of
// consecutive purchase days in a non-home city.
type TravelEpisode struct {
	City            string `json:"city"`
	ConsecutiveDays int    `json:"consecutive_days"`
	StartDate       string `json:"start_date"` // YYYY-MM-DD
	EndDate         string `json:"end_date"`   // YYYY-MM-DD
	WeekdayRange    string `json:"weekday_range"`
}
