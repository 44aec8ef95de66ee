package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProcessed counts processed messages per topic and handler.
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)

	// BookingsCreated counts bookings that entered PENDING_PAYMENT.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookings",
		Name:      "created_total",
		Help:      "The total number of pending bookings created",
	})

	BookingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookings",
		Name:      "rejected_total",
		Help:      "The total number of booking attempts rejected at reservation time",
	})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookings",
		Name:      "confirmed_total",
		Help:      "The total number of bookings confirmed",
	})

	BookingsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookings",
		Name:      "failed_total",
		Help:      "The total number of bookings marked as failed",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookings",
		Name:      "cancelled_total",
		Help:      "The total number of bookings cancelled",
	})
)
