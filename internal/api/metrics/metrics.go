// Package metrics defines the custom Prometheus metrics for the task system.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them alongside the standard HTTP
// request metrics collected by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "testflow"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TasksCreatedTotal counts newly opened tasks.
// Label:
//   - urgency: "low", "medium", "high", or "critical"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by urgency.",
	},
	[]string{"urgency"},
)

// TasksClosedTotal counts tasks moved to the closed status.
var TasksClosedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_closed_total",
		Help:      "Total number of tasks closed.",
	},
)

// ThrottleRejectionsTotal counts logins rejected by the brute-force throttle
// before credential verification.
var ThrottleRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "throttle_rejections_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)
