package schedule

import (
	"fmt"
	"time"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// StaffGrace is how far past the hour boundary staff may still pick the
// current hour, so a walk-in arriving at 19:03 can be booked for 19:00.
// Public callers get no grace: their current hour is immediately past.
const StaffGrace = 5 * time.Minute

// TimeSlot is one bookable hour in a day's picklist.
type TimeSlot struct {
	Hour      int    `json:"hour"`  // display hour, 0-23
	Label     string `json:"label"` // "18:00"
	Occupied  int    `json:"occupied"`
	Left      int    `json:"left"`
	Available bool   `json:"available"`
	Past      bool   `json:"past"`
}

// Generator builds the ordered slot picklist for a date.
type Generator struct {
	clock Clock
}

// NewGenerator creates a slot generator. A nil clock falls back to the
// system clock.
func NewGenerator(clock Clock) *Generator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Generator{clock: clock}
}

// DaySlots returns the picklist for a date, ascending by hour. The list is
// empty when the weekly schedule closes the day or the date is explicitly
// blocked. Hours past midnight stay on the opening date's axis and are
// displayed mod 24.
func (g *Generator) DaySlots(date time.Time, settings *model.Settings, reservations []model.Reservation, excludeID string, staff bool) []TimeSlot {
	day, open := settings.HoursFor(date)
	if !open || settings.IsBlocked(date) {
		return nil
	}

	start, end := day.EffectiveRange()

	// The date carries only calendar fields; its location may differ from
	// the clock's. All wall-clock comparisons happen on the clock's side.
	now := g.clock.Now()
	today := sameDate(now, date)

	slots := make([]TimeSlot, 0, end-start)
	for h := start; h < end; h++ {
		display := h % 24
		hc := EvaluateHour(display, date, reservations, settings.ActiveLanes, excludeID, now)

		past := false
		if today && h < 24 {
			switch {
			case display < now.Hour():
				past = true
			case display == now.Hour():
				if staff {
					past = now.Sub(hourStart(date, display, now.Location())) >= StaffGrace
				} else {
					past = true
				}
			}
		}

		slots = append(slots, TimeSlot{
			Hour:      display,
			Label:     fmt.Sprintf("%02d:00", display),
			Occupied:  hc.Occupied,
			Left:      hc.Left,
			Available: hc.Available && !past,
			Past:      past,
		})
	}
	return slots
}

func hourStart(date time.Time, hour int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
