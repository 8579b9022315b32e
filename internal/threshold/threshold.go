// Package threshold defines named trigger points watched by the monitor.
package threshold

import (
	"math"
	"strings"

	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/temperature"
)

// Direction is the crossing direction a threshold reacts to.
type Direction int

const (
	Any Direction = iota
	Above
	Below
)

func (d Direction) String() string {
	switch d {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return "any direction"
	}
}

// ParseDirection accepts "above", "below", "any direction" or "any" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "above":
		return Above, nil
	case "below":
		return Below, nil
	case "any direction", "any":
		return Any, nil
	default:
		return Any, errors.New().WithData(ErrInvalidDirection, s)
	}
}

// Threshold is an immutable trigger point. Build it with New.
type Threshold struct {
	name      string
	value     float64
	unit      temperature.Unit
	direction Direction
	tolerance float64
}

// Option customizes a Threshold under construction
type Option func(*Threshold) error

// WithDirection sets the crossing direction; the default is Any
func WithDirection(direction string) Option {
	return func(t *Threshold) error {
		d, err := ParseDirection(direction)
		if err != nil {
			return err
		}
		t.direction = d
		return nil
	}
}

// WithTolerance sets the step size under which a repeated crossing is
// suppressed; the default is 0
func WithTolerance(tolerance float64) Option {
	return func(t *Threshold) error {
		if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
			return errors.New().WithData(ErrInvalidArgument, struct {
				Field string
				Value float64
			}{
				Field: "tolerance",
				Value: tolerance,
			})
		}
		t.tolerance = tolerance
		return nil
	}
}

// New creates a threshold with the target value expressed in unit.
func New(name string, value float64, unit string, opts ...Option) (Threshold, error) {
	errFactory := errors.New()

	if strings.TrimSpace(name) == "" {
		return Threshold{}, errFactory.WithMessage(ErrInvalidArgument, "threshold name must not be empty")
	}

	u, err := temperature.ParseUnit(unit)
	if err != nil {
		return Threshold{}, err
	}

	t := Threshold{
		name:      name,
		value:     value,
		unit:      u,
		direction: Any,
	}
	for _, opt := range opts {
		if err := opt(&t); err != nil {
			return Threshold{}, err
		}
	}

	return t, nil
}

func (t Threshold) Name() string           { return t.name }
func (t Threshold) Value() float64         { return t.value }
func (t Threshold) Unit() temperature.Unit { return t.unit }
func (t Threshold) Direction() Direction   { return t.direction }
func (t Threshold) Tolerance() float64     { return t.tolerance }

// TargetCelsius returns the target value normalized to degrees Celsius.
func (t Threshold) TargetCelsius() float64 {
	if t.unit == temperature.Fahrenheit {
		return (t.value - 32) * 5 / 9
	}

	return t.value
}
