package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boliche",
			Name:      "reservation_created_total",
			Help:      "Count of reservation blocks created by status.",
		},
		[]string{"status"},
	)

	validationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boliche",
			Name:      "validation_rejected_total",
			Help:      "Count of submissions rejected by validation check.",
		},
		[]string{"code"},
	)

	statusTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boliche",
			Name:      "status_transition_total",
			Help:      "Count of staff status transitions by target status.",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boliche",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by handler.",
		},
		[]string{"handler"},
	)

	slotCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "boliche",
			Name:      "slot_cache_total",
			Help:      "Slot picklist cache hits and misses.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, validationRejected, statusTransition, httpRequests, slotCache)
	})
}

func IncReservationCreated(status string) {
	reservationCreated.WithLabelValues(status).Inc()
}

func IncValidationRejected(code string) {
	validationRejected.WithLabelValues(code).Inc()
}

func IncStatusTransition(status string) {
	statusTransition.WithLabelValues(status).Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

func IncSlotCache(result string) {
	slotCache.WithLabelValues(result).Inc()
}
