// Package dashboard builds the donation-activity chart series and the
// lifetime "lives saved" total shown on the dashboard.
package dashboard

import (
	"fmt"
	"time"
)

// Default window around today: four days back, two days ahead.
const (
	DefaultPastDays   = 4
	DefaultFutureDays = 2
)

// DayLabel formats t as "D/M" with no leading zeros and no year.
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%d/%d", t.Day(), int(t.Month()))
}

// startOfDay truncates t to local midnight in t's own location. Truncate is
// not used because it works in absolute time and ignores the zone offset.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WindowRange returns the first and last calendar day covered by the window.
func WindowRange(today time.Time, pastDays, futureDays int) (time.Time, time.Time) {
	pastDays, futureDays = clamp(pastDays), clamp(futureDays)
	day := startOfDay(today)
	return day.AddDate(0, 0, -pastDays), day.AddDate(0, 0, futureDays)
}

// BuildWindow returns the ordered labels from today-pastDays through
// today+futureDays, one per day, and a label map initialized to zero.
func BuildWindow(today time.Time, pastDays, futureDays int) ([]string, map[string]int) {
	pastDays, futureDays = clamp(pastDays), clamp(futureDays)
	day := startOfDay(today)
	labels := make([]string, 0, pastDays+1+futureDays)
	counts := make(map[string]int, pastDays+1+futureDays)
	for offset := -pastDays; offset <= futureDays; offset++ {
		label := DayLabel(day.AddDate(0, 0, offset))
		labels = append(labels, label)
		counts[label] = 0
	}
	return labels, counts
}

// BuildLegacyWindow reproduces the mobile client's construction: the past
// loop includes today, then today is pushed again before the future loop.
// The result carries one duplicate label that FinalizeSeries removes.
func BuildLegacyWindow(today time.Time, pastDays, futureDays int) ([]string, map[string]int) {
	pastDays, futureDays = clamp(pastDays), clamp(futureDays)
	day := startOfDay(today)
	labels := make([]string, 0, pastDays+2+futureDays)
	counts := make(map[string]int, pastDays+1+futureDays)
	push := func(t time.Time) {
		label := DayLabel(t)
		labels = append(labels, label)
		counts[label] = 0
	}
	for i := pastDays; i >= 0; i-- {
		push(day.AddDate(0, 0, -i))
	}
	push(day)
	for i := 1; i <= futureDays; i++ {
		push(day.AddDate(0, 0, i))
	}
	return labels, counts
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
