// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for auth events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Metrics records authentication events. A nil *Metrics is valid and records nothing.
type Metrics struct {
	events       *prometheus.CounterVec
	hashDuration *prometheus.HistogramVec
}

// NewMetrics creates auth metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inkpost_auth_events_total",
				Help: "Total number of authentication events by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		hashDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inkpost_credential_hash_seconds",
				Help:    "Histogram of credential hash and verify latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(m.events)
	reg.MustRegister(m.hashDuration)

	return m
}

// RecordEvent counts one auth operation. The outcome is derived from err:
// nil is success, client-facing kinds are failure, everything else is error.
func (m *Metrics) RecordEvent(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case KindOf(err) == KindInternal:
		outcome = OutcomeError
	default:
		outcome = OutcomeFailure
	}
	m.events.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) observeHash(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.hashDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
