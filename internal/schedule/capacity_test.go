package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

var testDay = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func resv(id string, startHour, duration, lanes int, status string) model.Reservation {
	return model.Reservation{
		ID:            id,
		Date:          testDay,
		StartHour:     startHour,
		DurationHours: duration,
		LaneCount:     lanes,
		PeopleCount:   lanes * 2,
		Status:        status,
		CreatedAt:     testDay.Add(12 * time.Hour),
	}
}

func TestEvaluateHour_Empty(t *testing.T) {
	now := testDay.Add(10 * time.Hour)
	hc := EvaluateHour(18, testDay, nil, 6, "", now)

	assert.Equal(t, 0, hc.Occupied)
	assert.Equal(t, 6, hc.Left)
	assert.True(t, hc.Available)
}

func TestEvaluateHour_SumsOverlappingLanes(t *testing.T) {
	now := testDay.Add(13 * time.Hour)
	all := []model.Reservation{
		resv("a", 18, 2, 3, model.StatusConfirmada),
		resv("b", 18, 1, 3, model.StatusConfirmada),
		resv("c", 19, 1, 1, model.StatusConfirmada),
	}

	hc := EvaluateHour(18, testDay, all, 6, "", now)
	assert.Equal(t, 6, hc.Occupied)
	assert.Equal(t, 0, hc.Left)
	assert.False(t, hc.Available)

	hc = EvaluateHour(19, testDay, all, 6, "", now)
	assert.Equal(t, 4, hc.Occupied)
	assert.Equal(t, 2, hc.Left)
	assert.True(t, hc.Available)
}

func TestEvaluateHour_IgnoresCancelled(t *testing.T) {
	now := testDay.Add(13 * time.Hour)
	all := []model.Reservation{
		resv("a", 18, 2, 4, model.StatusCancelada),
		resv("b", 18, 2, 2, model.StatusConfirmada),
	}

	hc := EvaluateHour(18, testDay, all, 6, "", now)
	assert.Equal(t, 2, hc.Occupied)
	assert.Equal(t, 4, hc.Left)
}

func TestEvaluateHour_IgnoresOtherDates(t *testing.T) {
	now := testDay.Add(13 * time.Hour)
	other := resv("a", 18, 2, 4, model.StatusConfirmada)
	other.Date = testDay.AddDate(0, 0, 1)

	hc := EvaluateHour(18, testDay, []model.Reservation{other}, 6, "", now)
	assert.Equal(t, 0, hc.Occupied)
}

func TestEvaluateHour_HoldExpiry(t *testing.T) {
	created := testDay.Add(12 * time.Hour)
	hold := model.Reservation{
		ID: "h", Date: testDay, StartHour: 18, DurationHours: 2,
		LaneCount: 2, Status: model.StatusPendente, PayOnSite: false,
		CreatedAt: created,
	}
	all := []model.Reservation{hold}

	// Inside the 30-minute window the hold consumes lanes.
	hc := EvaluateHour(18, testDay, all, 6, "", created.Add(29*time.Minute))
	assert.Equal(t, 2, hc.Occupied)

	// At the boundary it stops counting with no stored mutation.
	hc = EvaluateHour(18, testDay, all, 6, "", created.Add(30*time.Minute))
	assert.Equal(t, 0, hc.Occupied)
	assert.Equal(t, model.StatusPendente, all[0].Status)
}

func TestEvaluateHour_SelfExclusion(t *testing.T) {
	now := testDay.Add(13 * time.Hour)
	all := []model.Reservation{
		resv("mine", 18, 2, 4, model.StatusConfirmada),
		resv("other", 18, 1, 1, model.StatusConfirmada),
	}

	hc := EvaluateHour(18, testDay, all, 6, "mine", now)
	assert.Equal(t, 1, hc.Occupied)
	assert.Equal(t, 5, hc.Left)
}

func TestEvaluateHour_LeftNeverNegative(t *testing.T) {
	now := testDay.Add(13 * time.Hour)
	all := []model.Reservation{
		resv("a", 18, 1, 5, model.StatusConfirmada),
		resv("b", 18, 1, 5, model.StatusConfirmada),
	}

	hc := EvaluateHour(18, testDay, all, 6, "", now)
	assert.Equal(t, 10, hc.Occupied)
	assert.Equal(t, 0, hc.Left)
	assert.False(t, hc.Available)
}
