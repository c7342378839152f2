package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/metrics"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/reports"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/schedule"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/service"
)

// CreateReservationRequest is the body for POST /api/v1/reservations.
type CreateReservationRequest struct {
	Date                string `json:"date"`  // YYYY-MM-DD
	Hours               []int  `json:"hours"` // selected hours, need not be contiguous
	LaneCount           int    `json:"lane_count"`
	PeopleCount         int    `json:"people_count"`
	PayOnSite           bool   `json:"pay_on_site"`
	HasTableReservation bool   `json:"has_table_reservation"`
	TableSeatCount      int    `json:"table_seat_count"`
	ClientName          string `json:"client_name"`
	ClientPhone         string `json:"client_phone"`
}

// UpdateReservationRequest is the body for PATCH /api/v1/reservations/{id}.
type UpdateReservationRequest struct {
	StartHour     int `json:"start_hour"`
	DurationHours int `json:"duration_hours"`
	LaneCount     int `json:"lane_count"`
	PeopleCount   int `json:"people_count"`
}

// handleReservations creates a reservation submission.
// POST /api/v1/reservations
func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations_create")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CreateReservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ClientName == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}
	if req.LaneCount < 1 || req.PeopleCount < 1 {
		writeError(w, http.StatusBadRequest, "lane_count and people_count must be at least 1")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	created, err := s.svc.Create(r.Context(), service.CreateRequest{
		Date:                date,
		Hours:               req.Hours,
		LaneCount:           req.LaneCount,
		PeopleCount:         req.PeopleCount,
		PayOnSite:           req.PayOnSite,
		HasTableReservation: req.HasTableReservation,
		TableSeatCount:      req.TableSeatCount,
		ClientName:          req.ClientName,
		ClientPhone:         req.ClientPhone,
	})
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"reservations": created})
}

// handleReservationByID dispatches PATCH /api/v1/reservations/{id} and
// POST /api/v1/reservations/{id}/status.
func (s *Server) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/reservations/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || rest == r.URL.Path {
		writeError(w, http.StatusBadRequest, "reservation id is required")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/status"); ok {
		s.handleStatusTransition(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.handleUpdateReservation(w, r, rest)
}

func (s *Server) handleUpdateReservation(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTP("reservations_update")
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use PATCH")
		return
	}

	var req UpdateReservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DurationHours < 1 || req.LaneCount < 1 || req.PeopleCount < 1 {
		writeError(w, http.StatusBadRequest, "duration_hours, lane_count and people_count must be at least 1")
		return
	}

	updated, err := s.svc.Update(r.Context(), id, service.UpdateRequest{
		StartHour:     req.StartHour,
		DurationHours: req.DurationHours,
		LaneCount:     req.LaneCount,
		PeopleCount:   req.PeopleCount,
	})
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reservation": updated})
}

func (s *Server) handleStatusTransition(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTP("reservations_status")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := s.svc.Transition(r.Context(), id, req.Status); err != nil {
		s.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleDayReport streams the staff day agenda as an xlsx file.
// GET /api/v1/reports/day?date=YYYY-MM-DD
func (s *Server) handleDayReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reports_day")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date is required in YYYY-MM-DD format")
		return
	}

	reservations, err := s.store.ReservationsForDate(r.Context(), date)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load reservations for report")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	dateStr := date.Format(model.DateKey)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="agenda-%s.xlsx"`, dateStr))
	if err := reports.WriteDayAgenda(w, dateStr, reservations); err != nil {
		s.log.Error().Err(err).Msg("failed to write day agenda")
	}
}

// writeBookingError maps service errors onto HTTP statuses. Validation
// failures keep their structure so the caller can self-correct.
func (s *Server) writeBookingError(w http.ResponseWriter, err error) {
	var verr *schedule.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusConflict, map[string]any{"error": verr})
	case errors.Is(err, service.ErrDayClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTerminalStatus):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrNoHours),
		errors.Is(err, schedule.ErrHourOutOfRange),
		errors.Is(err, service.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "reservation not found")
	default:
		s.log.Error().Err(err).Msg("booking operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
