package model

import "time"

// DayHours is the weekly schedule entry for one weekday.
// End 0 means midnight (the venue closes at 24:00). End below Start means
// the day wraps past midnight and the effective end is End+24.
type DayHours struct {
	Open  bool `json:"open"`
	Start int  `json:"start"` // 0-23
	End   int  `json:"end"`   // 0-23, 0 = midnight
}

// EffectiveRange returns the [start, end) hour range on the day's own axis.
// Closed days return (0, 0).
func (d DayHours) EffectiveRange() (start, end int) {
	if !d.Open {
		return 0, 0
	}
	start = d.Start
	end = d.End
	if end == 0 {
		end = 24
	} else if end < start {
		end += 24
	}
	return start, end
}

// DateKey is the storage format for calendar dates.
const DateKey = "2006-01-02"

// Settings holds the establishment configuration the engine reasons about.
type Settings struct {
	ActiveLanes       int                 `json:"active_lanes"`
	WeekdayPriceCents int64               `json:"weekday_price_cents"` // per lane per hour
	WeekendPriceCents int64               `json:"weekend_price_cents"`
	Hours             [7]DayHours         `json:"hours"` // index 0 = Sunday
	BlockedDates      map[string]struct{} `json:"-"`     // full-day closures, "2006-01-02"
}

// HoursFor resolves the weekly schedule for a calendar date. The zero date is
// treated as closed rather than an error. Blocked dates are not applied here;
// the slot generator combines both checks.
func (s *Settings) HoursFor(date time.Time) (DayHours, bool) {
	if date.IsZero() {
		return DayHours{}, false
	}
	d := s.Hours[int(date.Weekday())]
	return d, d.Open
}

// IsBlocked reports whether the date is an explicit full-day closure.
func (s *Settings) IsBlocked(date time.Time) bool {
	if len(s.BlockedDates) == 0 {
		return false
	}
	_, ok := s.BlockedDates[date.Format(DateKey)]
	return ok
}

// HourPriceCents returns the per-lane hourly price for a date. Saturday and
// Sunday use the weekend tariff.
func (s *Settings) HourPriceCents(date time.Time) int64 {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return s.WeekendPriceCents
	default:
		return s.WeekdayPriceCents
	}
}
