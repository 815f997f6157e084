package service

import (
	"time"

	"cafesync/internal/domain"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// periodStart returns the beginning of the calendar period containing now.
// Weeks start on Sunday. Unknown periods fall back to today.
func periodStart(period string, now time.Time) (string, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodWeek:
		return period, day.AddDate(0, 0, -int(day.Weekday()))
	case PeriodMonth:
		return period, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return PeriodToday, day
	}
}

func completedAt(c domain.CompletedOrder) time.Time {
	if c.CompletedAt != nil {
		return *c.CompletedAt
	}
	return c.UpdatedAt
}

func hourKey(t time.Time) string { return t.Format("15") + ":00" }
