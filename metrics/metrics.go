// Package metrics registers the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	VerificationsStarted prometheus.Counter
	VerificationsPassed  prometheus.Counter
	VerificationsFailed  prometheus.Counter
	ExtractionErrors     prometheus.Counter
	TicketChecksPassed   prometheus.Counter
	VisaChecksPassed     prometheus.Counter
}

// New creates and registers all metrics against the given registerer.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in
// tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VerificationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "travel_verifier_passport_verifications_started_total",
			Help: "Total number of passport verification attempts received",
		}),
		VerificationsPassed: factory.NewCounter(prometheus.CounterOpts{
			Name: "travel_verifier_passport_verifications_passed_total",
			Help: "Total number of passport verifications that produced a valid verdict",
		}),
		VerificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "travel_verifier_passport_verifications_failed_total",
			Help: "Total number of passport verifications that produced an invalid verdict",
		}),
		ExtractionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "travel_verifier_extraction_errors_total",
			Help: "Total number of extraction oracle calls that failed or returned unparsable output",
		}),
		TicketChecksPassed: factory.NewCounter(prometheus.CounterOpts{
			Name: "travel_verifier_ticket_checks_passed_total",
			Help: "Total number of flight tickets that passed the name cross-check",
		}),
		VisaChecksPassed: factory.NewCounter(prometheus.CounterOpts{
			Name: "travel_verifier_visa_checks_passed_total",
			Help: "Total number of visa documents that passed all checks",
		}),
	}
}
