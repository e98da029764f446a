package board

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	assignmentsTotal   *prometheus.CounterVec
	clearsTotal        *prometheus.CounterVec
	conflictsTotal     *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	persistFailures    *prometheus.CounterVec
	consistencyRepairs prometheus.Counter
	boundResources     *prometheus.GaugeVec
)

type collectors struct {
	assignments *prometheus.CounterVec
	clears      *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	validation  *prometheus.CounterVec
	persist     *prometheus.CounterVec
	repairs     prometheus.Counter
	bound       *prometheus.GaugeVec
}

// newCollectors creates new metric collectors.
func newCollectors() collectors {
	return collectors{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_assignments_total",
			Help: "Number of resources bound to an owner",
		}, []string{"owner_kind", "role"}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_clears_total",
			Help: "Number of resources released from an owner",
		}, []string{"owner_kind"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_conflicts_total",
			Help: "Conflicting assignments by outcome",
		}, []string{"outcome"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_validation_failures_total",
			Help: "Rejected assignments by reason code",
		}, []string{"code"}),
		persist: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_persistence_failures_total",
			Help: "Failed state store operations",
		}, []string{"op"}),
		repairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "board_consistency_repairs_total",
			Help: "Number of times the reverse indices were rebuilt after a mismatch",
		}),
		bound: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "board_bound_resources",
			Help: "Resources currently bound to an owner",
		}, []string{"type"}),
	}
}

func (c collectors) install() {
	assignmentsTotal = c.assignments
	clearsTotal = c.clears
	conflictsTotal = c.conflicts
	validationFailures = c.validation
	persistFailures = c.persist
	consistencyRepairs = c.repairs
	boundResources = c.bound
}

func init() {
	newCollectors().install()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers board metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(assignmentsTotal, clearsTotal, conflictsTotal, validationFailures,
		persistFailures, consistencyRepairs, boundResources)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	newCollectors().install()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
