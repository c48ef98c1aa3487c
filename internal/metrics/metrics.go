// Package metrics holds the Prometheus collectors for the handlers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes
const (
	OutcomeAccepted      = "accepted"
	OutcomeInvalid       = "invalid"
	OutcomeMisconfigured = "misconfigured"
	OutcomeUpstreamError = "upstream_error"
)

var (
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submissions by outcome",
		},
		[]string{"outcome"},
	)

	VapiCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vapi_calls_total",
			Help: "Outbound call requests by result",
		},
		[]string{"result"},
	)

	VapiCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vapi_call_duration_seconds",
			Help:    "Latency of the call API create request",
			Buckets: prometheus.DefBuckets,
		},
	)

	CallEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_events_received_total",
			Help: "Call API events received by type",
		},
		[]string{"type"},
	)
)
