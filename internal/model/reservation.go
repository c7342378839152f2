package model

import "time"

// Reservation statuses. The stored values follow the house vocabulary and
// must not be translated: reports and the staff agenda rely on them.
const (
	StatusPendente   = "Pendente"
	StatusConfirmada = "Confirmada"
	StatusCheckIn    = "Check-in"
	StatusCancelada  = "Cancelada"
	StatusNoShow     = "No-show"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// HoldTTL is how long an unpaid pending reservation keeps its lanes. After
// this window the row still exists with status Pendente but no longer counts
// toward capacity. Nothing in this package mutates the row at the boundary.
const HoldTTL = 30 * time.Minute

// Reservation is one contiguous block of lane time. A single customer
// submission with non-contiguous hours is persisted as several rows sharing
// client data, each with its own start hour and duration.
type Reservation struct {
	ID                  string    `json:"id"`
	Date                time.Time `json:"date"` // local midnight of the booked day
	StartHour           int       `json:"start_hour"`
	DurationHours       int       `json:"duration_hours"`
	LaneCount           int       `json:"lane_count"`
	PeopleCount         int       `json:"people_count"`
	Status              string    `json:"status"`
	PaymentStatus       string    `json:"payment_status"`
	PayOnSite           bool      `json:"pay_on_site"`
	HasTableReservation bool      `json:"has_table_reservation"`
	TableSeatCount      int       `json:"table_seat_count,omitempty"`
	ClientName          string    `json:"client_name"`
	ClientPhone         string    `json:"client_phone"`
	PriceCents          int64     `json:"price_cents"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// EndHour returns the exclusive end of the block on the day's hour axis.
// A block that crosses midnight yields a value above 24; callers compare
// slot hours on the same axis.
func (r *Reservation) EndHour() int {
	return r.StartHour + r.DurationHours
}

// OccupiesHour reports whether the block covers the given display hour
// (0-23) on its own date. Hours past midnight belong to the opening date's
// axis, so hour 1 of a 23:00+3h block is covered via hour+24.
func (r *Reservation) OccupiesHour(hour int) bool {
	if hour >= r.StartHour && hour < r.EndHour() {
		return true
	}
	return hour+24 >= r.StartHour && hour+24 < r.EndHour()
}

// IsExpiredHold reports whether the reservation is an unpaid pending hold
// whose 30-minute window has elapsed at now. Such a row is invisible to
// capacity math even though its stored status is still Pendente.
func (r *Reservation) IsExpiredHold(now time.Time) bool {
	return r.Status == StatusPendente && !r.PayOnSite && now.Sub(r.CreatedAt) >= HoldTTL
}

// CountsTowardCapacity reports whether the reservation consumes lanes at now.
func (r *Reservation) CountsTowardCapacity(now time.Time) bool {
	if r.Status == StatusCancelada {
		return false
	}
	return !r.IsExpiredHold(now)
}

// SameDate reports whether the reservation is on the given calendar date.
func (r *Reservation) SameDate(date time.Time) bool {
	ry, rm, rd := r.Date.Date()
	y, m, d := date.Date()
	return ry == y && rm == m && rd == d
}
