package statuspub

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusWriter renders the watchdog's state as node_exporter textfile
// collector output. It keeps its own private registry — this process never
// serves /metrics itself, matching the file/textfile-collector mode the
// rest of the pack uses client_golang in, rather than an HTTP server mode.
type PrometheusWriter struct {
	registry  *prometheus.Registry
	state     *prometheus.GaugeVec
	failRatio prometheus.Gauge
	rssi      prometheus.Gauge
	reboots   prometheus.Gauge
}

// NewPrometheusWriter builds a PrometheusWriter with its metrics
// registered.
func NewPrometheusWriter() *PrometheusWriter {
	reg := prometheus.NewRegistry()

	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "linkwatchd_health_state",
		Help: "1 if the watchdog's current classification matches the labeled state, 0 otherwise.",
	}, []string{"state"})
	failRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkwatchd_fail_ratio",
		Help: "Current health window fail ratio.",
	})
	rssi := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkwatchd_rssi_dbm",
		Help: "Last observed wireless RSSI in dBm.",
	})
	reboots := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkwatchd_reboots_today",
		Help: "Reboots performed by the escalation ladder so far today.",
	})

	reg.MustRegister(state, failRatio, rssi, reboots)

	return &PrometheusWriter{registry: reg, state: state, failRatio: failRatio, rssi: rssi, reboots: reboots}
}

// Observe updates the gauges from status, ready for the next WriteTextfile.
func (w *PrometheusWriter) Observe(status Status) {
	w.state.Reset()
	w.state.WithLabelValues(status.State.String()).Set(1)

	w.failRatio.Set(status.FailRatio)
	if status.RSSI != nil {
		w.rssi.Set(float64(*status.RSSI))
	}
	w.reboots.Set(float64(status.RebootsToday))
}

// WriteTextfile writes the current gauge values to path using
// prometheus.WriteToTextfile, which handles the atomic temp-file-then-
// rename write node_exporter's textfile collector requires.
func (w *PrometheusWriter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, w.registry); err != nil {
		return fmt.Errorf("write prometheus textfile %s: %w", path, err)
	}
	return nil
}
