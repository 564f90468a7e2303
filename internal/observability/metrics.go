// Package observability holds the logger constructor and the Prometheus
// metrics for the helpdesk service. Metric variables are registered with
// the default registry at init time via promauto; the HTTP layer exposes
// them on /metrics.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk"

// TicketsCreatedTotal counts tickets entering the approval queue.
var TicketsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created.",
	},
)

// TransitionsTotal counts applied ticket transitions by action.
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of ticket transitions applied, by action.",
	},
	[]string{"action"},
)

// TransitionErrorsTotal counts rejected transition attempts.
// Label:
//   - code: the domain error code (e.g. "INVALID_TRANSITION")
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of ticket transition attempts rejected, by error code.",
	},
	[]string{"code"},
)

// MessagesModeratedTotal counts moderation decisions, including the
// implicit approval of trusted mediator sends.
var MessagesModeratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_moderated_total",
		Help:      "Total number of message moderation outcomes, by resulting status.",
	},
	[]string{"status"},
)

// LockContentionTotal counts failed per-ticket lock acquisitions.
var LockContentionTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lock_contention_total",
		Help:      "Total number of per-ticket lock acquisitions that found the lock held.",
	},
)

var httpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route, method and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

// ObserveHTTPRequest records one finished HTTP request.
func ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	httpRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

var httpErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP requests that failed, by route, method and error code.",
	},
	[]string{"route", "method", "code"},
)

// ObserveHTTPError records one failed HTTP request.
func ObserveHTTPError(route, method, code string) {
	httpErrorsTotal.WithLabelValues(route, method, code).Inc()
}
