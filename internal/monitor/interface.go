package monitor

import (
	"codeberg.org/mutker/tempwatch/internal/temperature"
	"codeberg.org/mutker/tempwatch/internal/threshold"
)

// Notification is emitted when a threshold crossing is accepted.
type Notification struct {
	ThresholdName string
	TargetValue   float64
	TargetUnit    temperature.Unit
	Tolerance     float64
	Direction     threshold.Direction
	Index         int
	// Celsius is the reading that fired the notification.
	Celsius float64
}

// Observer receives monitor events. It is called synchronously from Record
// and must not call back into the monitor.
type Observer interface {
	ReadingRecorded(t temperature.Temperature, index int)
	Notified(n Notification)
	Suppressed(t threshold.Threshold, index int)
}

// Option configures a Monitor
type Option func(*Monitor)

// WithObserver installs an observer for readings and notifications
func WithObserver(o Observer) Option {
	return func(m *Monitor) {
		if o != nil {
			m.observer = o
		}
	}
}

type noopObserver struct{}

func (noopObserver) ReadingRecorded(temperature.Temperature, int) {}
func (noopObserver) Notified(Notification)                        {}
func (noopObserver) Suppressed(threshold.Threshold, int)          {}
