// Package metrics counts library scans, playlist saves and watch events.
//
// crate is a short-lived command, so nothing is served over HTTP. When a
// textfile path is configured the counters are written there on exit in the
// Prometheus text format, ready for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crate"

// Recorder owns a private registry so tests and concurrent commands never
// share counters.
type Recorder struct {
	reg *prometheus.Registry

	ScansTotal      *prometheus.CounterVec
	ScanDuration    prometheus.Histogram
	TracksScanned   prometheus.Gauge
	SavesTotal      *prometheus.CounterVec
	WatchEvents     *prometheus.CounterVec
	PlaybackStarted prometheus.Counter
}

// New creates a Recorder with every metric registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		ScansTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Total number of library scans",
			},
			[]string{"result"}, // "success", "error"
		),
		ScanDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Library scan duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		TracksScanned: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tracks_scanned",
				Help:      "Number of tracks found by the most recent scan",
			},
		),
		SavesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "playlist_saves_total",
				Help:      "Total number of playlist saves",
			},
			[]string{"format", "status"},
		),
		WatchEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watch_events_total",
				Help:      "Total number of library watch events",
			},
			[]string{"type"},
		),
		PlaybackStarted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "playback_started_total",
				Help:      "Total number of tracks handed to the player",
			},
		),
	}
}

// ObserveScan records one scan's outcome.
func (r *Recorder) ObserveScan(d time.Duration, tracks int, err error) {
	if r == nil {
		return
	}
	r.ScanDuration.Observe(d.Seconds())
	if err != nil {
		r.ScansTotal.WithLabelValues("error").Inc()
		return
	}
	r.ScansTotal.WithLabelValues("success").Inc()
	r.TracksScanned.Set(float64(tracks))
}

// ObserveSave records one playlist save.
func (r *Recorder) ObserveSave(format string, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.SavesTotal.WithLabelValues(format, status).Inc()
}

// ObserveWatchEvent counts one watch event by type name.
func (r *Recorder) ObserveWatchEvent(kind string) {
	if r == nil {
		return
	}
	r.WatchEvents.WithLabelValues(kind).Inc()
}

// ObservePlayback counts one track started.
func (r *Recorder) ObservePlayback() {
	if r == nil {
		return
	}
	r.PlaybackStarted.Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile writes all metrics to path atomically. An empty path is a
// no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
