// Package service wires the scheduling engine to storage, cache and
// notifications.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/cache"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/metrics"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/notify"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/schedule"
)

// Store is the persistence surface the booking service needs.
type Store interface {
	ReservationsForDate(ctx context.Context, date time.Time) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	CreateReservations(ctx context.Context, reservations []model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id, status string) error
	LoadSettings(ctx context.Context) (*model.Settings, error)
	UpdateBusinessHours(ctx context.Context, weekday int, d model.DayHours) error
	BlockDate(ctx context.Context, date time.Time, reason string) error
	UnblockDate(ctx context.Context, date time.Time) error
}

// ErrDayClosed rejects submissions for days the venue does not open,
// whether by weekly schedule or an explicit blocked date.
var ErrDayClosed = errors.New("establishment is closed on this date")

// ErrTerminalStatus rejects transitions out of a cancelled reservation.
var ErrTerminalStatus = errors.New("reservation is cancelled")

// ErrUnknownStatus rejects transitions to a status outside the lifecycle.
var ErrUnknownStatus = errors.New("unknown status")

// Limits carries the configurable validation ceilings.
type Limits struct {
	MaxReservationsPerSlot     int
	MaxPeoplePerSlot           int
	MaxTableReservationsPerDay int
}

// Service implements the booking flows on top of the scheduling engine.
type Service struct {
	store    Store
	slots    *cache.SlotCache
	notifier notify.Notifier
	clock    schedule.Clock
	limits   Limits
	log      *zerolog.Logger
}

// New creates a booking service. The cache and notifier may be nil.
func New(store Store, slots *cache.SlotCache, notifier notify.Notifier, clock schedule.Clock, limits Limits, log *zerolog.Logger) *Service {
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	return &Service{
		store:    store,
		slots:    slots,
		notifier: notifier,
		clock:    clock,
		limits:   limits,
		log:      log,
	}
}

func (s *Service) rules(settings *model.Settings, enforceSlotCap bool) schedule.Rules {
	return schedule.Rules{
		ActiveLanes:                settings.ActiveLanes,
		MaxReservationsPerSlot:     s.limits.MaxReservationsPerSlot,
		MaxPeoplePerSlot:           s.limits.MaxPeoplePerSlot,
		MaxTableReservationsPerDay: s.limits.MaxTableReservationsPerDay,
		EnforceSlotReservationCap:  enforceSlotCap,
	}
}

// DaySlots returns the picklist for a date, serving from cache when no
// reservation is excluded (exclusion variants are per-edit and not worth
// caching).
func (s *Service) DaySlots(ctx context.Context, date time.Time, staff bool, excludeID string) ([]schedule.TimeSlot, error) {
	if excludeID == "" {
		if slots, ok := s.slots.Get(ctx, date, staff); ok {
			return slots, nil
		}
	}

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	reservations, err := s.store.ReservationsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	slots := schedule.NewGenerator(s.clock).DaySlots(date, settings, reservations, excludeID, staff)
	if excludeID == "" {
		s.slots.Set(ctx, date, staff, slots)
	}
	return slots, nil
}

// CreateRequest is a public or staff booking submission.
type CreateRequest struct {
	Date                time.Time
	Hours               []int
	LaneCount           int
	PeopleCount         int
	PayOnSite           bool
	HasTableReservation bool
	TableSeatCount      int
	ClientName          string
	ClientPhone         string
}

// Create validates a submission against a fresh snapshot and persists one
// reservation row per coalesced block. The snapshot read and the insert are
// separate operations: two concurrent submissions can both pass validation
// and oversubscribe an hour (see DESIGN.md).
func (s *Service) Create(ctx context.Context, req CreateRequest) ([]model.Reservation, error) {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if _, open := settings.HoursFor(req.Date); !open || settings.IsBlocked(req.Date) {
		return nil, ErrDayClosed
	}

	blocks, err := schedule.Coalesce(req.Hours)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.store.ReservationsForDate(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	now := s.clock.Now()
	vreq := schedule.Request{
		Date:                req.Date,
		LaneCount:           req.LaneCount,
		PeopleCount:         req.PeopleCount,
		HasTableReservation: req.HasTableReservation,
	}
	if err := schedule.ValidateRequest(vreq, blocks, snapshot, s.rules(settings, true), now); err != nil {
		var verr *schedule.ValidationError
		if errors.As(err, &verr) {
			metrics.IncValidationRejected(verr.Code)
		}
		return nil, err
	}

	hourPrice := settings.HourPriceCents(req.Date)
	created := make([]model.Reservation, 0, len(blocks))
	for _, b := range blocks {
		created = append(created, model.Reservation{
			ID:                  uuid.NewString(),
			Date:                req.Date,
			StartHour:           b.StartHour,
			DurationHours:       b.DurationHours,
			LaneCount:           req.LaneCount,
			PeopleCount:         req.PeopleCount,
			Status:              model.StatusPendente,
			PaymentStatus:       model.PaymentPending,
			PayOnSite:           req.PayOnSite,
			HasTableReservation: req.HasTableReservation,
			TableSeatCount:      req.TableSeatCount,
			ClientName:          req.ClientName,
			ClientPhone:         req.ClientPhone,
			PriceCents:          hourPrice * int64(req.LaneCount) * int64(b.DurationHours),
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	if err := s.store.CreateReservations(ctx, created); err != nil {
		return nil, fmt.Errorf("persist reservations: %w", err)
	}

	for range created {
		metrics.IncReservationCreated(model.StatusPendente)
	}
	s.slots.InvalidateDate(ctx, req.Date)

	if s.notifier != nil {
		go s.notifier.ReservationCreated(context.WithoutCancel(ctx), created)
	}

	s.log.Info().
		Str("client", req.ClientName).
		Str("date", req.Date.Format(model.DateKey)).
		Int("blocks", len(created)).
		Int("lanes", req.LaneCount).
		Msg("reservation created")

	return created, nil
}

// UpdateRequest is a staff edit-in-place of a single reservation block.
type UpdateRequest struct {
	StartHour     int
	DurationHours int
	LaneCount     int
	PeopleCount   int
}

// Update revalidates and rewrites an existing block. The reservation's own
// footprint is excluded from capacity so shrinking or moving it within its
// prior slot is never self-blocked. The per-slot reservation-count cap is
// not applied here, matching the staff flow.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*model.Reservation, error) {
	if req.StartHour < 0 || req.StartHour+req.DurationHours > schedule.MaxAxisHour {
		return nil, fmt.Errorf("%w: start %d, duration %d", schedule.ErrHourOutOfRange, req.StartHour, req.DurationHours)
	}

	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	snapshot, err := s.store.ReservationsForDate(ctx, existing.Date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	blocks := []schedule.Block{{StartHour: req.StartHour, DurationHours: req.DurationHours}}
	now := s.clock.Now()
	vreq := schedule.Request{
		Date:                existing.Date,
		LaneCount:           req.LaneCount,
		PeopleCount:         req.PeopleCount,
		HasTableReservation: existing.HasTableReservation,
		ExcludeID:           id,
	}
	if err := schedule.ValidateRequest(vreq, blocks, snapshot, s.rules(settings, false), now); err != nil {
		var verr *schedule.ValidationError
		if errors.As(err, &verr) {
			metrics.IncValidationRejected(verr.Code)
		}
		return nil, err
	}

	existing.StartHour = req.StartHour
	existing.DurationHours = req.DurationHours
	existing.LaneCount = req.LaneCount
	existing.PeopleCount = req.PeopleCount
	existing.PriceCents = settings.HourPriceCents(existing.Date) * int64(req.LaneCount) * int64(req.DurationHours)
	existing.UpdatedAt = now

	if err := s.store.UpdateReservation(ctx, existing); err != nil {
		return nil, fmt.Errorf("persist reservation: %w", err)
	}
	s.slots.InvalidateDate(ctx, existing.Date)

	s.log.Info().Str("reservation_id", id).Msg("reservation updated")
	return existing, nil
}

var validStatuses = map[string]struct{}{
	model.StatusPendente:   {},
	model.StatusConfirmada: {},
	model.StatusCheckIn:    {},
	model.StatusCancelada:  {},
	model.StatusNoShow:     {},
}

// Transition moves a reservation to a new status. Cancelled is terminal.
func (s *Service) Transition(ctx context.Context, id, status string) error {
	if _, ok := validStatuses[status]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownStatus, status)
	}

	existing, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == model.StatusCancelada {
		return ErrTerminalStatus
	}

	if err := s.store.UpdateReservationStatus(ctx, id, status); err != nil {
		return err
	}
	metrics.IncStatusTransition(status)
	s.slots.InvalidateDate(ctx, existing.Date)

	s.log.Info().Str("reservation_id", id).Str("status", status).Msg("reservation status changed")
	return nil
}
