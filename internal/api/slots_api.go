package api

import (
	"net/http"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/metrics"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/schedule"
)

// handleSlots returns the day's slot picklist.
// GET /api/v1/slots?date=YYYY-MM-DD[&staff=true][&exclude=id]
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date is required in YYYY-MM-DD format")
		return
	}

	staff := r.URL.Query().Get("staff") == "true"
	excludeID := r.URL.Query().Get("exclude")

	slots, err := s.svc.DaySlots(r.Context(), date, staff, excludeID)
	if err != nil {
		s.log.Error().Err(err).Str("date", r.URL.Query().Get("date")).Msg("failed to generate slots")
		writeError(w, http.StatusInternalServerError, "failed to generate slots")
		return
	}

	// A closed or blocked day yields an empty picklist, not an error.
	if slots == nil {
		slots = []schedule.TimeSlot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  r.URL.Query().Get("date"),
		"slots": slots,
	})
}
