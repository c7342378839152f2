package schedule

import (
	"fmt"
	"time"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// UnitsPerLane couples the two per-lane ceilings: a lane admits at most 6
// people, and a reservation may span at most 6 hours per lane booked. The
// house treats these as one rule, so they share one constant.
const UnitsPerLane = 6

// Validation failure codes.
const (
	CodeLaneLimit          = "lane_limit"
	CodePeopleRatio        = "people_ratio"
	CodeDurationRatio      = "duration_ratio"
	CodeHourFull           = "hour_full"
	CodeSlotReservationCap = "slot_reservation_cap"
	CodeSlotPeopleCap      = "slot_people_cap"
	CodeTableCap           = "table_cap"
)

// ValidationError is a recoverable, user-facing rejection. Hour is -1 when
// the failure is not tied to a specific hour.
type ValidationError struct {
	Code  string `json:"code"`
	Hour  int    `json:"hour,omitempty"`
	Limit int    `json:"limit"`
	Msg   string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Msg }

func reject(code string, hour, limit int, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Hour: hour, Limit: limit, Msg: fmt.Sprintf(format, args...)}
}

// Rules are the capacity and business-rule limits the validator enforces.
// MaxReservationsPerSlot and MaxPeoplePerSlot are configurable because the
// house rules disagree on them (see DESIGN.md); EnforceSlotReservationCap is
// off in the staff edit flow, matching the source behavior.
type Rules struct {
	ActiveLanes                int
	MaxReservationsPerSlot     int
	MaxPeoplePerSlot           int
	MaxTableReservationsPerDay int
	EnforceSlotReservationCap  bool
}

// Request is a prospective multi-block submission.
type Request struct {
	Date                time.Time
	LaneCount           int
	PeopleCount         int
	HasTableReservation bool
	ExcludeID           string // reservation being edited, "" on create
}

// ValidateRequest re-verifies every block of a submission against the
// current reservation snapshot. Checks run in a fixed order and the first
// violation rejects the whole submission; nothing is ever partially
// admitted. The snapshot is whatever the caller read before validating.
// A writer committing in between is not detected here.
func ValidateRequest(req Request, blocks []Block, reservations []model.Reservation, rules Rules, now time.Time) error {
	if len(blocks) == 0 {
		return ErrNoHours
	}

	if req.LaneCount > rules.ActiveLanes {
		return reject(CodeLaneLimit, -1, rules.ActiveLanes,
			"establishment has only %d lanes", rules.ActiveLanes)
	}

	maxPeople := req.LaneCount * UnitsPerLane
	if req.PeopleCount > maxPeople {
		return reject(CodePeopleRatio, -1, maxPeople,
			"%d lane(s) admit at most %d people", req.LaneCount, maxPeople)
	}

	maxHours := req.LaneCount * UnitsPerLane
	if TotalHours(blocks) > maxHours {
		return reject(CodeDurationRatio, -1, maxHours,
			"%d lane(s) admit at most %d hours in total", req.LaneCount, maxHours)
	}

	for _, b := range blocks {
		for h := b.StartHour; h < b.StartHour+b.DurationHours; h++ {
			display := h % 24
			hc := EvaluateHour(display, req.Date, reservations, rules.ActiveLanes, req.ExcludeID, now)
			if hc.Left < req.LaneCount {
				return reject(CodeHourFull, display, hc.Left,
					"only %d lane(s) left at %02d:00", hc.Left, display)
			}
		}
	}

	if rules.EnforceSlotReservationCap {
		for _, b := range blocks {
			n := countAtSlot(reservations, req.Date, b.StartHour%24, req.ExcludeID)
			if n >= rules.MaxReservationsPerSlot {
				return reject(CodeSlotReservationCap, b.StartHour%24, rules.MaxReservationsPerSlot,
					"slot %s already has %d reservations", b.Label(), n)
			}
		}
	}

	for _, b := range blocks {
		people := peopleAtSlot(reservations, req.Date, b.StartHour%24, req.ExcludeID)
		if people+req.PeopleCount > rules.MaxPeoplePerSlot {
			return reject(CodeSlotPeopleCap, b.StartHour%24, rules.MaxPeoplePerSlot,
				"slot %s would exceed the %d-person ceiling", b.Label(), rules.MaxPeoplePerSlot)
		}
	}

	if req.HasTableReservation {
		tables := tablesOnDate(reservations, req.Date, req.ExcludeID)
		if tables >= rules.MaxTableReservationsPerDay {
			return reject(CodeTableCap, -1, rules.MaxTableReservationsPerDay,
				"the daily limit of %d table reservations is reached", rules.MaxTableReservationsPerDay)
		}
	}

	return nil
}

// countAtSlot counts non-cancelled reservation rows starting at exactly the
// given hour. Expired holds still count here: the cap is on rows sharing a
// start time, not on lane usage.
func countAtSlot(reservations []model.Reservation, date time.Time, hour int, excludeID string) int {
	n := 0
	for i := range reservations {
		r := &reservations[i]
		if r.ID == excludeID || !r.SameDate(date) || r.Status == model.StatusCancelada {
			continue
		}
		if r.StartHour%24 == hour {
			n++
		}
	}
	return n
}

func peopleAtSlot(reservations []model.Reservation, date time.Time, hour int, excludeID string) int {
	total := 0
	for i := range reservations {
		r := &reservations[i]
		if r.ID == excludeID || !r.SameDate(date) || r.Status == model.StatusCancelada {
			continue
		}
		if r.StartHour%24 == hour {
			total += r.PeopleCount
		}
	}
	return total
}

func tablesOnDate(reservations []model.Reservation, date time.Time, excludeID string) int {
	n := 0
	for i := range reservations {
		r := &reservations[i]
		if r.ID == excludeID || !r.SameDate(date) || r.Status == model.StatusCancelada {
			continue
		}
		if r.HasTableReservation {
			n++
		}
	}
	return n
}
