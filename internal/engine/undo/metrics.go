package undo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undolog_records_total",
		Help: "Undo records pushed, by kind",
	}, []string{"kind"})

	coalescedInsertionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "undolog_coalesced_insertions_total",
		Help: "Insertions merged into the preceding insertion record",
	})

	reservationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "undolog_boundary_reservation_failures_total",
		Help: "Boundary reservations refused by the memory check",
	})

	truncationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undolog_truncations_total",
		Help: "Truncation passes, by outcome",
	}, []string{"outcome"})

	truncatedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "undolog_truncated_bytes_total",
		Help: "Cost-model bytes dropped by truncation",
	})

	overflowCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "undolog_overflow_handler_calls_total",
		Help: "Calls of the outer-limit overflow handler",
	})
)

// Truncation outcomes used as metric labels.
const (
	outcomeKept     = "kept"
	outcomeCut      = "cut"
	outcomeCleared  = "cleared"
	outcomeHandled  = "handled"
	outcomeFailed   = "failed"
	outcomeDisabled = "disabled"
)
