// Package quota decides when a daily generation counter rolls over.
//
// Day boundaries are local calendar days (midnight to midnight in the location
// carried by "now"), not a rolling 24h window.
package quota

import (
	"time"

	"studyspace-be/internal/entity"
)

// Clock is the source of "now" for everything that touches daily counters.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ShouldReset reports whether the calendar day of now is strictly after the
// calendar day of lastActive. A zero lastActive always needs a reset.
func ShouldReset(lastActive, now time.Time) bool {
	if lastActive.IsZero() {
		return true
	}
	return dayStart(now).After(dayStart(lastActive.In(now.Location())))
}

// Reset returns usage rolled over to the day of now and true, or usage
// unchanged and false when it already belongs to that day. Repeated calls on
// the same day are no-ops.
func Reset(usage entity.UsageStats, now time.Time) (entity.UsageStats, bool) {
	if !ShouldReset(usage.LastActiveDate, now) {
		return usage, false
	}

	if !usage.LastActiveDate.IsZero() && isPreviousDay(usage.LastActiveDate, now) {
		usage.StreakDays++
	} else {
		usage.StreakDays = 1
	}
	usage.DailyGenerations = 0
	usage.LastActiveDate = now
	return usage, true
}

// NextReset is the next local midnight after now.
func NextReset(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isPreviousDay(lastActive, now time.Time) bool {
	yesterday := dayStart(now).AddDate(0, 0, -1)
	return dayStart(lastActive.In(now.Location())).Equal(yesterday)
}
