package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus counters and histograms for best-track runs.
type Metrics struct {
	registry *prometheus.Registry

	StormsIndexed   prometheus.Counter
	StormsDecoded   prometheus.Counter
	RecordsDecoded  prometheus.Counter
	DecodeErrors    *prometheus.CounterVec // labels: kind={parse,unknown,unsupported,io}
	RowsWritten     *prometheus.CounterVec // labels: sink={timestamps,parquet,json}
	DecodeDuration  prometheus.Histogram
	ExtractDuration prometheus.Histogram
}

// NewMetrics creates all collectors and registers them with a dedicated
// registry that also carries the Go runtime collectors.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry without runtime collectors.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StormsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "besttrack",
			Name:      "storms_indexed_total",
			Help:      "Storm headers found while building indexes.",
		}),
		StormsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "besttrack",
			Name:      "storms_decoded_total",
			Help:      "Storms whose observation rows decoded successfully.",
		}),
		RecordsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "besttrack",
			Name:      "records_decoded_total",
			Help:      "Observation rows decoded.",
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "besttrack",
			Name:      "decode_errors_total",
			Help:      "Storm decode failures by kind.",
		}, []string{"kind"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "besttrack",
			Name:      "rows_written_total",
			Help:      "Rows written to an output sink.",
		}, []string{"sink"}),
		DecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "besttrack",
			Name:      "decode_duration_seconds",
			Help:      "Duration of a single storm decode, including the file re-read.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ExtractDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "besttrack",
			Name:      "extract_duration_seconds",
			Help:      "Duration of a complete batch extraction.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	m.registry.MustRegister(
		m.StormsIndexed,
		m.StormsDecoded,
		m.RecordsDecoded,
		m.DecodeErrors,
		m.RowsWritten,
		m.DecodeDuration,
		m.ExtractDuration,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metric values in the node_exporter
// textfile collector format. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
