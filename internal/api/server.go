// Package api exposes the booking engine over HTTP.
package api

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/service"
)

// Server serves the booking API.
type Server struct {
	svc     *service.Service
	store   service.Store
	log     *zerolog.Logger
	limiter *ipLimiter
}

// NewServer creates the API server. perMinute and burst bound each client
// IP on the public endpoints.
func NewServer(svc *service.Service, store service.Store, log *zerolog.Logger, perMinute, burst int) *Server {
	return &Server{
		svc:     svc,
		store:   store,
		log:     log,
		limiter: newIPLimiter(perMinute, burst),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/slots", s.rateLimited(s.handleSlots))
	mux.HandleFunc("/api/v1/reservations", s.rateLimited(s.handleReservations))
	mux.HandleFunc("/api/v1/reservations/", s.handleReservationByID)
	mux.HandleFunc("/api/v1/reports/day", s.handleDayReport)
	mux.HandleFunc("/api/v1/settings/hours", s.handleBusinessHours)
	mux.HandleFunc("/api/v1/settings/blocked-dates", s.handleBlockedDates)
	return mux
}

func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	return &ipLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	if ip == "" {
		return true
	}
	l.mu.Lock()
	lim, ok := l.buckets[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.buckets[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

func parseDateParam(r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return time.Time{}, false
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
