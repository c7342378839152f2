package service

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/schedule"
)

type fakeStore struct {
	settings     *model.Settings
	reservations map[string]*model.Reservation
}

func newFakeStore() *fakeStore {
	var s model.Settings
	s.ActiveLanes = 6
	s.WeekdayPriceCents = 8000
	s.WeekendPriceCents = 10000
	for i := range s.Hours {
		s.Hours[i] = model.DayHours{Open: true, Start: 18, End: 0}
	}
	return &fakeStore{settings: &s, reservations: make(map[string]*model.Reservation)}
}

func (f *fakeStore) ReservationsForDate(_ context.Context, date time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range f.reservations {
		if r.SameDate(date) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetReservation(_ context.Context, id string) (*model.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) CreateReservations(_ context.Context, reservations []model.Reservation) error {
	for i := range reservations {
		cp := reservations[i]
		f.reservations[cp.ID] = &cp
	}
	return nil
}

func (f *fakeStore) UpdateReservation(_ context.Context, r *model.Reservation) error {
	if _, ok := f.reservations[r.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *r
	f.reservations[r.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateReservationStatus(_ context.Context, id, status string) error {
	r, ok := f.reservations[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	return nil
}

func (f *fakeStore) LoadSettings(context.Context) (*model.Settings, error) {
	return f.settings, nil
}

func (f *fakeStore) UpdateBusinessHours(_ context.Context, weekday int, d model.DayHours) error {
	f.settings.Hours[weekday] = d
	return nil
}

func (f *fakeStore) BlockDate(_ context.Context, date time.Time, _ string) error {
	if f.settings.BlockedDates == nil {
		f.settings.BlockedDates = make(map[string]struct{})
	}
	f.settings.BlockedDates[date.Format(model.DateKey)] = struct{}{}
	return nil
}

func (f *fakeStore) UnblockDate(_ context.Context, date time.Time) error {
	delete(f.settings.BlockedDates, date.Format(model.DateKey))
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	friday  = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC) // weekday tariff
	testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
)

func newService(store Store) *Service {
	logger := zerolog.New(io.Discard)
	limits := Limits{MaxReservationsPerSlot: 2, MaxPeoplePerSlot: 100, MaxTableReservationsPerDay: 25}
	return New(store, nil, nil, fixedClock{now: testNow}, limits, &logger)
}

func TestCreate_CoalescesAndPrices(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	created, err := svc.Create(context.Background(), CreateRequest{
		Date:        friday,
		Hours:       []int{19, 22, 18}, // two blocks: 18-20 and 22-23
		LaneCount:   2,
		PeopleCount: 8,
		ClientName:  "Ana Souza",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, 18, created[0].StartHour)
	assert.Equal(t, 2, created[0].DurationHours)
	assert.Equal(t, 22, created[1].StartHour)
	assert.Equal(t, 1, created[1].DurationHours)

	for _, r := range created {
		assert.Equal(t, model.StatusPendente, r.Status)
		assert.Equal(t, model.PaymentPending, r.PaymentStatus)
		assert.Equal(t, testNow, r.CreatedAt)
		assert.NotEmpty(t, r.ID)
	}

	// 8000 cents per lane-hour, 2 lanes: the total splits by block hours.
	assert.Equal(t, int64(32000), created[0].PriceCents)
	assert.Equal(t, int64(16000), created[1].PriceCents)

	assert.Len(t, store.reservations, 2)
}

func TestCreate_RejectsOverCapacity(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{
		Date: friday, Hours: []int{18}, LaneCount: 7, PeopleCount: 10, ClientName: "x",
	})
	var verr *schedule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schedule.CodeLaneLimit, verr.Code)
	assert.Empty(t, store.reservations, "nothing may persist on rejection")
}

func TestCreate_DayClosed(t *testing.T) {
	store := newFakeStore()
	store.settings.Hours[5] = model.DayHours{} // Fridays closed
	svc := newService(store)

	_, err := svc.Create(context.Background(), CreateRequest{
		Date: friday, Hours: []int{18}, LaneCount: 1, PeopleCount: 2, ClientName: "x",
	})
	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestCreate_BlockedDate(t *testing.T) {
	store := newFakeStore()
	store.settings.BlockedDates = map[string]struct{}{friday.Format(model.DateKey): {}}
	svc := newService(store)

	_, err := svc.Create(context.Background(), CreateRequest{
		Date: friday, Hours: []int{18}, LaneCount: 1, PeopleCount: 2, ClientName: "x",
	})
	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestCreate_EmptySelection(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	_, err := svc.Create(context.Background(), CreateRequest{
		Date: friday, LaneCount: 1, PeopleCount: 2, ClientName: "x",
	})
	assert.ErrorIs(t, err, schedule.ErrNoHours)
}

func TestCreate_HourOutOfRange(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	// Out-of-range hours would pass every capacity check (negative displays
	// match nothing) and persist as unbillable garbage rows.
	_, err := svc.Create(context.Background(), CreateRequest{
		Date: friday, Hours: []int{-2, 99}, LaneCount: 1, PeopleCount: 2, ClientName: "x",
	})
	require.ErrorIs(t, err, schedule.ErrHourOutOfRange)
	assert.Empty(t, store.reservations, "nothing may persist on rejection")
}

func TestUpdate_HourOutOfRange(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Date: friday, Hours: []int{20}, LaneCount: 1, PeopleCount: 2, ClientName: "Ana",
	})
	require.NoError(t, err)
	id := created[0].ID

	for _, req := range []UpdateRequest{
		{StartHour: -1, DurationHours: 1, LaneCount: 1, PeopleCount: 2},
		{StartHour: 99, DurationHours: 1, LaneCount: 1, PeopleCount: 2},
		{StartHour: 47, DurationHours: 2, LaneCount: 1, PeopleCount: 2},
	} {
		_, err := svc.Update(ctx, id, req)
		assert.ErrorIs(t, err, schedule.ErrHourOutOfRange, "start %d duration %d", req.StartHour, req.DurationHours)
	}

	got, err := store.GetReservation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 20, got.StartHour)
}

func TestCreate_WeekendTariff(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	saturday := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), CreateRequest{
		Date: saturday, Hours: []int{20}, LaneCount: 1, PeopleCount: 4, ClientName: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), created[0].PriceCents)
}

func TestUpdate_SelfExclusion(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Date: friday, Hours: []int{20, 21}, LaneCount: 6, PeopleCount: 12, ClientName: "Ana",
	})
	require.NoError(t, err)
	id := created[0].ID

	// Shrinking within the prior slot must not be self-blocked even though
	// the reservation holds all six lanes.
	updated, err := svc.Update(ctx, id, UpdateRequest{
		StartHour: 21, DurationHours: 1, LaneCount: 6, PeopleCount: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, updated.StartHour)
	assert.Equal(t, 1, updated.DurationHours)
	assert.Equal(t, int64(48000), updated.PriceCents)
}

func TestUpdate_RejectsConflict(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateRequest{
		Date: friday, Hours: []int{20}, LaneCount: 4, PeopleCount: 8, ClientName: "Ana",
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, CreateRequest{
		Date: friday, Hours: []int{21}, LaneCount: 4, PeopleCount: 8, ClientName: "Bruno",
	})
	require.NoError(t, err)

	// Moving Bruno onto Ana's hour needs 4 lanes but only 2 are left.
	_, err = svc.Update(ctx, second[0].ID, UpdateRequest{
		StartHour: 20, DurationHours: 1, LaneCount: 4, PeopleCount: 8,
	})
	var verr *schedule.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schedule.CodeHourFull, verr.Code)
	assert.Equal(t, 20, verr.Hour)

	_ = first
}

func TestTransition(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Date: friday, Hours: []int{20}, LaneCount: 1, PeopleCount: 2, ClientName: "Ana",
	})
	require.NoError(t, err)
	id := created[0].ID

	require.NoError(t, svc.Transition(ctx, id, model.StatusConfirmada))
	got, err := store.GetReservation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmada, got.Status)

	assert.ErrorIs(t, svc.Transition(ctx, id, "Aprovada"), ErrUnknownStatus)

	require.NoError(t, svc.Transition(ctx, id, model.StatusCancelada))
	assert.ErrorIs(t, svc.Transition(ctx, id, model.StatusConfirmada), ErrTerminalStatus)
}
