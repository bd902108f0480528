package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutorhours_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tutorhours_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutorhours_orders_total",
			Help: "Order transitions by resulting status",
		},
		[]string{"status"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutorhours_reservations_total",
			Help: "Reservation transitions by resulting status",
		},
		[]string{"status"},
	)

	InsufficientHoursTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutorhours_reservation_insufficient_hours_total",
			Help: "Reservation approvals refused for lack of study hours",
		},
	)

	LedgerHoursCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutorhours_ledger_hours_credited_total",
			Help: "Study hours credited to all accounts",
		},
	)

	LedgerHoursDebited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tutorhours_ledger_hours_debited_total",
			Help: "Study hours debited from all accounts",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tutorhours_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tutorhours_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordOrder(status string) {
	OrdersTotal.WithLabelValues(status).Inc()
}

func RecordReservation(status string) {
	ReservationsTotal.WithLabelValues(status).Inc()
}

func RecordInsufficientHours() {
	InsufficientHoursTotal.Inc()
}

func RecordCredit(hours int) {
	LedgerHoursCredited.Add(float64(hours))
}

func RecordDebit(hours int) {
	LedgerHoursDebited.Add(float64(hours))
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
