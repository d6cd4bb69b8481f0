// Package metrics records import results as Prometheus metrics.
//
// The importer is a short-lived command, so metrics are not served over HTTP.
// They are written to a node_exporter textfile after each run instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ginjaninja78/gem-stock-importer/internal/converter"
)

// Recorder holds the metrics of one import run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	inventoryRows  prometheus.Gauge
	batches        *prometheus.GaugeVec
	lines          *prometheus.GaugeVec
	droppedBatches *prometheus.GaugeVec
	warnings       prometheus.Gauge
	lastRun        prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

// NewRecorder registers the import metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		inventoryRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "inventory_rows",
			Help:      "Inventory records parsed in the last import.",
		}),
		batches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "batches",
			Help:      "Usage batches parsed in the last import.",
		}, []string{"category"}),
		lines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "lines",
			Help:      "Usage lines parsed in the last import.",
		}, []string{"category"}),
		droppedBatches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "dropped_batches",
			Help:      "Batches without lines, product code or total dropped in the last import.",
		}, []string{"category"}),
		warnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "validation_warnings",
			Help:      "Validation warnings raised in the last import.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last import run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gemstock",
			Subsystem: "import",
			Name:      "last_run_success",
			Help:      "1 if the last import run succeeded, 0 otherwise.",
		}),
	}

	r.registry.MustRegister(
		r.inventoryRows,
		r.batches,
		r.lines,
		r.droppedBatches,
		r.warnings,
		r.lastRun,
		r.lastSuccess,
	)

	return r
}

// Observe records a parse result and its warning count.
func (r *Recorder) Observe(result *converter.Result, warnings int) {
	r.inventoryRows.Set(float64(result.Stats.InventoryRows))
	for category, stats := range result.Stats.PerCategory {
		label := string(category)
		r.batches.WithLabelValues(label).Set(float64(stats.Batches))
		r.lines.WithLabelValues(label).Set(float64(stats.Lines))
		r.droppedBatches.WithLabelValues(label).Set(float64(stats.DroppedBatches))
	}
	r.warnings.Set(float64(warnings))
}

// Finish records the end of a run.
func (r *Recorder) Finish(success bool) {
	r.lastRun.SetToCurrentTime()
	if success {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics in text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
