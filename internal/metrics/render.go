// Package metrics collects render and runtime statistics. RenderMetrics
// records scheduler events into a private Prometheus registry that the
// metrics server exposes and -metrics-file writes to disk.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/mandelcalc/internal/render"
)

const namespace = "mandelcalc"

// Status label values of mandelcalc_renders_total.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RenderMetrics implements render.Recorder on a private registry.
type RenderMetrics struct {
	registry *prometheus.Registry

	renderDuration *prometheus.HistogramVec
	bandDuration   *prometheus.HistogramVec
	pixels         *prometheus.CounterVec
	renders        *prometheus.CounterVec
	activeWorkers  prometheus.Gauge
	scrapes        prometheus.Counter
}

var _ render.Recorder = (*RenderMetrics)(nil)

// NewRenderMetrics creates the render collectors together with the Go
// runtime and process collectors.
func NewRenderMetrics() *RenderMetrics {
	m := &RenderMetrics{
		registry: prometheus.NewRegistry(),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall-clock duration of a full render.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
		}, []string{"strategy", "status"}),
		bandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "band_duration_seconds",
			Help:      "Time a worker spent on its band.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 18),
		}, []string{"strategy"}),
		pixels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pixels_total",
			Help:      "Pixels evaluated.",
		}, []string{"strategy"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Completed renders by outcome.",
		}, []string{"strategy", "status"}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Workers currently evaluating pixels.",
		}),
		scrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metrics_scrapes_total",
			Help:      "Requests served by the metrics endpoint.",
		}),
	}
	m.registry.MustRegister(
		m.renderDuration, m.bandDuration, m.pixels, m.renders, m.activeWorkers, m.scrapes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RenderFinished records the outcome of one strategy run.
func (m *RenderMetrics) RenderFinished(strategy string, d time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.renderDuration.WithLabelValues(strategy, status).Observe(d.Seconds())
	m.renders.WithLabelValues(strategy, status).Inc()
}

func (m *RenderMetrics) BandFinished(strategy string, d time.Duration) {
	m.bandDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

func (m *RenderMetrics) PixelsComputed(strategy string, n int) {
	m.pixels.WithLabelValues(strategy).Add(float64(n))
}

func (m *RenderMetrics) WorkerStarted()  { m.activeWorkers.Inc() }
func (m *RenderMetrics) WorkerFinished() { m.activeWorkers.Dec() }

// IncScrapes counts one request to the metrics endpoint.
func (m *RenderMetrics) IncScrapes() { m.scrapes.Inc() }

// Registry returns the registry holding every collector.
func (m *RenderMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *RenderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteTextfile writes the current values in the node_exporter textfile
// collector format. The file is replaced atomically.
func (m *RenderMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
