package observability

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus counters and histograms for a scrape run.
// Each Metrics instance carries its own registry so tests never collide on
// the default registry and WriteTextfile only exports this run's series.
type Metrics struct {
	registry *prometheus.Registry

	PagesFetched     prometheus.Counter
	TablesParsed     prometheus.Counter
	RecordsExtracted prometheus.Counter
	RowsSkipped      prometheus.Counter
	RecordsLoaded    prometheus.Counter
	RunDuration      prometheus.Histogram
}

// NewMetrics creates and registers all scrape metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_temp_etl",
			Name:      "pages_fetched_total",
			Help:      "Total source pages fetched successfully.",
		}),
		TablesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_temp_etl",
			Name:      "tables_parsed_total",
			Help:      "Total qualifying data tables walked during extraction.",
		}),
		RecordsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_temp_etl",
			Name:      "records_extracted_total",
			Help:      "Total city records produced by the extractor.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_temp_etl",
			Name:      "rows_skipped_total",
			Help:      "Total table rows dropped (too few cells or empty names).",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "city_temp_etl",
			Name:      "records_loaded_total",
			Help:      "Total city records inserted into the store.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "city_temp_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-extract-load pass.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	m.registry.MustRegister(
		m.PagesFetched,
		m.TablesParsed,
		m.RecordsExtracted,
		m.RowsSkipped,
		m.RecordsLoaded,
		m.RunDuration,
	)

	return m
}

// WriteTextfile dumps the registry in Prometheus text exposition format.
// A one-shot batch has no /metrics endpoint to scrape; dropping the file
// into a node-exporter textfile collector directory fills that role.
func (m *Metrics) WriteTextfile(path string) error {
	mfs, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	// Rename so the collector never reads a half-written file.
	return os.Rename(tmp, path)
}
