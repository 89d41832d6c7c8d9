package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkInCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_tracker",
		Subsystem: "attendance",
		Name:      "checkins_total",
		Help:      "Total number of attendance check-ins recorded.",
	})
	lastCheckInGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gym_tracker",
		Subsystem: "attendance",
		Name:      "last_checkin_timestamp_seconds",
		Help:      "Unix timestamp of the most recent check-in persisted to Postgres.",
	})
	sessionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gym_tracker",
		Subsystem: "attendance",
		Name:      "session_duration_minutes",
		Help:      "Distribution of closed attendance session durations.",
		Buckets:   []float64{15, 30, 45, 60, 90, 120, 180, 240},
	})
	paymentCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_tracker",
		Subsystem: "billing",
		Name:      "payments_recorded_total",
		Help:      "Total number of payments persisted.",
	})
	revenueCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gym_tracker",
		Subsystem: "billing",
		Name:      "revenue_recorded_total",
		Help:      "Running sum of recorded payment amounts.",
	})
	lastPaymentGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gym_tracker",
		Subsystem: "billing",
		Name:      "last_payment_timestamp_seconds",
		Help:      "Unix timestamp of the most recent payment persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(checkInCounter, lastCheckInGauge, sessionDuration, paymentCounter, revenueCounter, lastPaymentGauge)
}

// RecordCheckIn updates the check-in counter and watermark gauge.
func RecordCheckIn(ts time.Time) {
	checkInCounter.Inc()
	if !ts.IsZero() {
		lastCheckInGauge.Set(float64(ts.Unix()))
	}
}

// RecordCheckOut observes a closed session's duration.
func RecordCheckOut(durationMinutes int) {
	sessionDuration.Observe(float64(durationMinutes))
}

// RecordPayment updates payment counters and the payment watermark gauge.
func RecordPayment(amount float64, ts time.Time) {
	paymentCounter.Inc()
	revenueCounter.Add(amount)
	if !ts.IsZero() {
		lastPaymentGauge.Set(float64(ts.Unix()))
	}
}
