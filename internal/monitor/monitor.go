// Package monitor decides when a stream of temperature readings crosses
// registered thresholds.
//
// A Monitor is a sequential state machine: every call to Record depends on
// the state left by the previous one. It is not safe for concurrent use;
// callers feeding it from several goroutines must serialize the calls.
package monitor

import (
	"math"

	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/logger"
	"codeberg.org/mutker/tempwatch/internal/temperature"
	"codeberg.org/mutker/tempwatch/internal/threshold"
)

type Monitor struct {
	current    temperature.Temperature
	previous   *float64
	thresholds []threshold.Threshold
	// one entry per registered threshold, nil until it first notifies
	lastNotified map[string]*float64
	observer     Observer
}

func New(opts ...Option) *Monitor {
	m := &Monitor{
		current:      temperature.FromCelsius(0),
		lastNotified: make(map[string]*float64),
		observer:     noopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Register adds a threshold. Names must be non-empty and unique.
func (m *Monitor) Register(t threshold.Threshold) error {
	if t.Name() == "" {
		return errors.New().WithMessage(errors.ErrInvalidArgument, "threshold name must not be empty")
	}
	if _, ok := m.lastNotified[t.Name()]; ok {
		return errors.New().WithData(ErrDuplicateThresholdName, t.Name())
	}

	m.thresholds = append(m.thresholds, t)
	m.lastNotified[t.Name()] = nil

	logger.Debug().
		Str("threshold", t.Name()).
		Float64("target_celsius", t.TargetCelsius()).
		Str("direction", t.Direction().String()).
		Float64("tolerance", t.Tolerance()).
		Msg("Threshold registered")

	return nil
}

// Record converts the reading, evaluates every threshold in registration
// order and returns the notifications that fired. An unknown unit leaves the
// monitor untouched.
func (m *Monitor) Record(value float64, unit string, index int) ([]Notification, error) {
	u, err := temperature.ParseUnit(unit)
	if err != nil {
		return nil, err
	}

	return m.RecordTemperature(temperature.New(value, u), index), nil
}

// RecordTemperature is Record for an already converted reading.
func (m *Monitor) RecordTemperature(t temperature.Temperature, index int) []Notification {
	m.current = t
	m.observer.ReadingRecorded(t, index)

	var notifications []Notification
	for _, th := range m.thresholds {
		if m.shouldNotify(th, index) {
			n := Notification{
				ThresholdName: th.Name(),
				TargetValue:   th.Value(),
				TargetUnit:    th.Unit(),
				Tolerance:     th.Tolerance(),
				Direction:     th.Direction(),
				Index:         index,
				Celsius:       t.Celsius(),
			}
			notifications = append(notifications, n)
			m.observer.Notified(n)
		}
	}

	prev := t.Celsius()
	m.previous = &prev

	return notifications
}

func (m *Monitor) shouldNotify(th threshold.Threshold, index int) bool {
	target := th.TargetCelsius()
	curr := m.current.Celsius()

	// A direction needs two points; the first reading only fires on an exact hit.
	if m.previous == nil {
		if curr != target {
			return false
		}
		m.markNotified(th, curr)
		return true
	}
	prev := *m.previous

	var crossed bool
	switch th.Direction() {
	case threshold.Above:
		crossed = prev > target && curr <= target
	case threshold.Below:
		crossed = prev < target && curr >= target
	case threshold.Any:
		// Exact equality only. Two samples straddling the target without
		// landing on it do not count as a crossing.
		crossed = curr == target
	}
	if !crossed {
		return false
	}

	if m.lastNotified[th.Name()] == nil {
		m.markNotified(th, curr)
		return true
	}

	// tolerance bounds the step between consecutive readings, not the
	// distance from the last notified value
	if math.Abs(curr-prev) <= th.Tolerance() {
		logger.Debug().
			Str("threshold", th.Name()).
			Int("index", index).
			Float64("step", math.Abs(curr-prev)).
			Float64("tolerance", th.Tolerance()).
			Msg("Crossing suppressed within tolerance")
		m.observer.Suppressed(th, index)
		return false
	}

	m.markNotified(th, curr)
	return true
}

func (m *Monitor) markNotified(th threshold.Threshold, celsius float64) {
	m.lastNotified[th.Name()] = &celsius
}

// Current returns the latest reading, 0 °C before any reading.
func (m *Monitor) Current() temperature.Temperature {
	return m.current
}

// Previous returns the reading the next call will compare against. ok is
// false until the first reading has been recorded.
func (m *Monitor) Previous() (temperature.Temperature, bool) {
	if m.previous == nil {
		return temperature.Temperature{}, false
	}

	return temperature.FromCelsius(*m.previous), true
}

// Thresholds returns the registered thresholds in evaluation order.
func (m *Monitor) Thresholds() []threshold.Threshold {
	out := make([]threshold.Threshold, len(m.thresholds))
	copy(out, m.thresholds)

	return out
}

// LastNotified returns the Celsius value at which the named threshold last
// notified. ok is false if it never notified or is not registered.
func (m *Monitor) LastNotified(name string) (float64, bool) {
	v := m.lastNotified[name]
	if v == nil {
		return 0, false
	}

	return *v, true
}
