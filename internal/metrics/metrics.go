// Package metrics exposes monitor activity as prometheus metrics.
package metrics

import (
	"codeberg.org/mutker/tempwatch/internal/monitor"
	"codeberg.org/mutker/tempwatch/internal/temperature"
	"codeberg.org/mutker/tempwatch/internal/threshold"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tempwatch"

// Recorder implements monitor.Observer on a private registry.
type Recorder struct {
	registry      *prometheus.Registry
	readings      prometheus.Counter
	notifications *prometheus.CounterVec
	suppressed    *prometheus.CounterVec
	temperature   prometheus.Gauge
	lastIndex     prometheus.Gauge
}

var _ monitor.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_total",
			Help:      "Total number of temperature readings recorded",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of threshold notifications emitted",
		}, []string{"threshold", "direction"}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suppressed_total",
			Help:      "Total number of crossings suppressed by tolerance",
		}, []string{"threshold"}),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "Latest recorded temperature in degrees Celsius",
		}),
		lastIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_sequence_index",
			Help:      "Sequence index of the latest recorded reading",
		}),
	}

	r.registry.MustRegister(r.readings, r.notifications, r.suppressed, r.temperature, r.lastIndex)

	return r
}

// Registry returns the registry holding the recorder's collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ReadingRecorded(t temperature.Temperature, index int) {
	r.readings.Inc()
	r.temperature.Set(t.Celsius())
	r.lastIndex.Set(float64(index))
}

func (r *Recorder) Notified(n monitor.Notification) {
	r.notifications.WithLabelValues(n.ThresholdName, n.Direction.String()).Inc()
}

func (r *Recorder) Suppressed(t threshold.Threshold, _ int) {
	r.suppressed.WithLabelValues(t.Name()).Inc()
}
