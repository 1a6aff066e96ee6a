// Package streak derives run-length stats from the logged clean days. A streak
// is a run of consecutive calendar days; the current streak survives until a
// full day has been missed, so logging yesterday but not yet today still
// counts.
package streak

import (
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// Stats describes the clean-day record at one point in time.
type Stats struct {
	Current      int    `json:"current"`
	Longest      int    `json:"longest"`
	Total        int    `json:"total"`
	LastCleanDay string `json:"last_clean_day,omitempty"`
	Milestone    string `json:"milestone,omitempty"`
}

// milestones maps streak lengths to the highest badge earned.
var milestones = []struct {
	Days  int
	Label string
}{
	{365, "one year"},
	{180, "six months"},
	{90, "ninety days"},
	{30, "thirty days"},
	{7, "one week"},
	{3, "three days"},
}

// Milestone returns the label for the longest milestone days has reached, or
// "" below all of them.
func Milestone(days int) string {
	for _, m := range milestones {
		if days >= m.Days {
			return m.Label
		}
	}
	return ""
}

// Evaluate computes streak stats from sorted, de-duplicated ISO clean days as
// of today. Unparseable entries are skipped.
func Evaluate(cleanDays []string, today time.Time) Stats {
	days := make([]time.Time, 0, len(cleanDays))
	for _, d := range cleanDays {
		parsed, err := model.ParseDay(d)
		if err != nil {
			continue
		}
		days = append(days, parsed)
	}

	s := Stats{Total: len(days)}
	if len(days) == 0 {
		return s
	}
	last := days[len(days)-1]
	s.LastCleanDay = model.FormatDay(last)

	run := 1
	s.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}

	// The trailing run counts as current only while it is still alive.
	gap := model.Midnight(today).Sub(last)
	if gap >= 0 && gap <= 24*time.Hour {
		s.Current = run
	}
	s.Milestone = Milestone(s.Current)
	return s
}
