package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Registry bundles the batch outcome instruments on a private prometheus
// registry so tests can run side by side without collisions.
type Registry struct {
	reg *prometheus.Registry

	RecordsRead prometheus.Counter
	Inserted    prometheus.Counter
	Skipped     prometheus.Counter
	Errored     prometheus.Counter
	BatchSec    prometheus.Histogram
}

// Module provides the metrics registry to Fx.
var Module = fx.Provide(NewRegistry)

// NewRegistry builds the registry and registers all instruments.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	recordsRead := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderloader_records_read_total"})
	inserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderloader_records_inserted_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderloader_records_skipped_total"})
	errored := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderloader_records_errored_total"})
	batchSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderloader_batch_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(recordsRead, inserted, skipped, errored, batchSec)

	return &Registry{
		reg:         r,
		RecordsRead: recordsRead,
		Inserted:    inserted,
		Skipped:     skipped,
		Errored:     errored,
		BatchSec:    batchSec,
	}
}

// Registerer exposes the backing registerer for exporters.
func (r *Registry) Registerer() prometheus.Registerer { return r.reg }

// Gatherer exposes the backing gatherer for exporters.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
