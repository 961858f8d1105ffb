// Package metrics counts allocation engine outcomes for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts operations by name and result code.  A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	ops *prometheus.CounterVec
}

// NewRecorder registers the engine counters on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seatbooking",
		Name:      "engine_operations_total",
		Help:      "Allocation engine operations by operation and result code.",
	}, []string{"op", "code"})
	reg.MustRegister(ops)
	return &Recorder{ops: ops}
}

// Observe increments the counter for one completed operation.
func (r *Recorder) Observe(op, code string) {
	if r == nil {
		return
	}
	r.ops.WithLabelValues(op, code).Inc()
}
