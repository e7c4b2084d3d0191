package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "insider_features"

// Metrics holds the Prometheus metrics of one extraction run
type Metrics struct {
	registry *prometheus.Registry

	RecordsRead    prometheus.Counter
	RecordsSkipped prometheus.Counter
	Diagnostics    *prometheus.CounterVec
	FeatureRows    *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	SinkPublished  *prometheus.CounterVec
	SinkErrors     *prometheus.CounterVec
}

// NewMetrics registers every metric on a private registry so a batch run can
// push exactly its own series
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_read_total",
			Help:      "Total number of activity records read",
		}),
		RecordsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Total number of activity records dropped as malformed",
		}),
		Diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics recorded, by stream",
		}, []string{"stream"}),
		FeatureRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feature_rows_total",
			Help:      "Daily feature rows produced, by domain",
		}, []string{"domain"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
		SinkPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_published_total",
			Help:      "Feature rows written, by sink",
		}, []string{"sink"}),
		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed sink writes, by sink",
		}, []string{"sink"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records how long stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddFeatureRows(domain string, n int) {
	m.FeatureRows.WithLabelValues(domain).Add(float64(n))
}

func (m *Metrics) AddSinkPublished(sink string, n int) {
	m.SinkPublished.WithLabelValues(sink).Add(float64(n))
}

func (m *Metrics) IncrementSinkErrors(sink string) {
	m.SinkErrors.WithLabelValues(sink).Inc()
}

// Push sends the run's metrics to a Prometheus pushgateway under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).Gatherer(m.registry).PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
