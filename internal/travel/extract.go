// Package travel infers vacation episodes from purchase geography: the
// longest block of consecutive purchase days in each non-home city.
package travel

import (
	"fmt"
	"sort"
	"time"

	"github.com/blocekhq/blocek/internal/anomaly"
	"github.com/blocekhq/blocek/internal/model"
)

// MinConsecutiveDays is the shortest run of purchase days that counts as a
// travel episode.
const MinConsecutiveDays = 2

// Extract derives travel episodes from location-anomalous lines. Per city
// it keeps the single longest run of consecutive purchase days (first run
// wins ties), drops runs shorter than MinConsecutiveDays, and filters the
// home city even though anomalous lines should never carry it. Results are
// sorted by run length descending, stable.
func Extract(lines []model.AnnotatedLine, report *anomaly.Report) []model.TravelEpisode {
	dates := make(map[string][]time.Time)
	var cityOrder []string

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
		if _, seen := dates[l.City]; !seen {
			cityOrder = append(cityOrder, l.City)
		}
		dates[l.City] = append(dates[l.City], d)
	}

	var episodes []model.TravelEpisode
	for _, city := range cityOrder {
		if ep, ok := longestRun(dates[city]); ok {
			ep.City = city
			episodes = append(episodes, ep)
		}
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].ConsecutiveDays > episodes[j].ConsecutiveDays
	})
	return episodes
}

// longestRun finds the longest block of consecutive calendar days among the
// given dates (deduplicated, sorted ascending). Comparison is strict, so
// the earliest of equally long runs is kept. Runs shorter than
// MinConsecutiveDays yield no episode.
func longestRun(ds []time.Time) (model.TravelEpisode, bool) {
	if len(ds) == 0 {
		return model.TravelEpisode{}, false
	}

	uniq := make(map[time.Time]bool, len(ds))
	for _, d := range ds {
		uniq[d] = true
	}
	sorted := make([]time.Time, 0, len(uniq))
	for d := range uniq {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	bestStart, bestEnd, bestLen := sorted[0], sorted[0], 1
	curStart, curEnd, curLen := sorted[0], sorted[0], 1

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			curEnd = sorted[i]
			curLen++
			continue
		}
		if curLen > bestLen {
			bestStart, bestEnd, bestLen = curStart, curEnd, curLen
		}
		curStart, curEnd, curLen = sorted[i], sorted[i], 1
	}
	if curLen > bestLen {
		bestStart, bestEnd, bestLen = curStart, curEnd, curLen
	}

	if bestLen < MinConsecutiveDays {
		return model.TravelEpisode{}, false
	}

	return model.TravelEpisode{
		ConsecutiveDays: bestLen,
		StartDate:       bestStart.Format("2006-01-02"),
		EndDate:         bestEnd.Format("2006-01-02"),
		WeekdayRange:    fmt.Sprintf("%s–%s", bestStart.Format("Mon"), bestEnd.Format("Mon")),
	}, true
}
