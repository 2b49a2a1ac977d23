// Package metrics exposes Prometheus instruments for the booking core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Booking requests by final outcome",
		},
		[]string{"outcome"},
	)

	bookingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_duration_seconds",
			Help:    "End to end latency of booking requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	rowLockHold = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_row_lock_hold_seconds",
			Help:    "Time between acquiring row locks and ending the booking transaction",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	suggestionsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_suggestions_returned",
			Help:    "Number of alternative screenings offered when no block was found",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)
)

// ObserveBooking records the outcome and latency of one booking request.
func ObserveBooking(outcome string, d time.Duration) {
	bookingRequests.WithLabelValues(outcome).Inc()
	bookingDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveLockHold records how long row locks were held.
func ObserveLockHold(d time.Duration) {
	rowLockHold.Observe(d.Seconds())
}

// ObserveSuggestions records the size of a suggestion list.
func ObserveSuggestions(n int) {
	suggestionsReturned.Observe(float64(n))
}
