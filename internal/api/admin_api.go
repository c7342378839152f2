package api

import (
	"encoding/json"
	"net/http"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/metrics"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// handleBusinessHours replaces one weekday's entry in the weekly schedule.
// PUT /api/v1/settings/hours
func (s *Server) handleBusinessHours(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("settings_hours")
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use PUT")
		return
	}

	var req struct {
		Weekday int  `json:"weekday"` // 0 = Sunday
		Open    bool `json:"open"`
		Start   int  `json:"start"`
		End     int  `json:"end"` // 0 means midnight
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		writeError(w, http.StatusBadRequest, "weekday must be between 0 and 6")
		return
	}
	if req.Open && (req.Start < 0 || req.Start > 23 || req.End < 0 || req.End > 23) {
		writeError(w, http.StatusBadRequest, "start and end must be between 0 and 23")
		return
	}

	day := model.DayHours{Open: req.Open, Start: req.Start, End: req.End}
	if err := s.svc.SetBusinessHours(r.Context(), req.Weekday, day); err != nil {
		s.log.Error().Err(err).Msg("failed to update business hours")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleBlockedDates manages per-date closures.
// POST /api/v1/settings/blocked-dates, DELETE /api/v1/settings/blocked-dates?date=
func (s *Server) handleBlockedDates(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("settings_blocked_dates")
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Date   string `json:"date"`
			Reason string `json:"reason"`
		}
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		if err := s.svc.BlockDate(r.Context(), date, req.Reason); err != nil {
			s.log.Error().Err(err).Msg("failed to block date")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case http.MethodDelete:
		date, ok := parseDateParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "date is required in YYYY-MM-DD format")
			return
		}
		if err := s.svc.UnblockDate(r.Context(), date); err != nil {
			s.log.Error().Err(err).Msg("failed to unblock date")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
