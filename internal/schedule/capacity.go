package schedule

import (
	"time"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// HourCapacity is the lane occupancy of a single hour on a date.
type HourCapacity struct {
	Occupied  int  `json:"occupied"`
	Left      int  `json:"left"`
	Available bool `json:"available"`
}

// EvaluateHour recomputes lane occupancy for one display hour (0-23) from
// the full reservation list. Cancelled rows, expired unpaid holds and the
// excluded reservation (edit-in-place) are ignored. The function is pure:
// it holds no lock and gives no atomicity between this read and a later
// insert, so a concurrent writer may consume the reported capacity.
func EvaluateHour(hour int, date time.Time, reservations []model.Reservation, totalLanes int, excludeID string, now time.Time) HourCapacity {
	occupied := 0
	for i := range reservations {
		r := &reservations[i]
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if !r.SameDate(date) || !r.CountsTowardCapacity(now) {
			continue
		}
		if r.OccupiesHour(hour) {
			occupied += r.LaneCount
		}
	}
	left := totalLanes - occupied
	if left < 0 {
		left = 0
	}
	return HourCapacity{Occupied: occupied, Left: left, Available: left > 0}
}
