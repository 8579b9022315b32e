// Package temperature holds the canonical temperature value used by the
// monitor. Values are stored in degrees Celsius; Fahrenheit is derived.
package temperature

import (
	"strings"

	"codeberg.org/mutker/tempwatch/internal/errors"
)

// Unit is a temperature scale.
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

func (u Unit) String() string {
	if u == Fahrenheit {
		return "F"
	}

	return "C"
}

// ParseUnit accepts "C", "F", "celsius" or "fahrenheit" in any case.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CELSIUS":
		return Celsius, nil
	case "F", "FAHRENHEIT":
		return Fahrenheit, nil
	default:
		return Celsius, errors.New().WithData(ErrInvalidUnit, s)
	}
}

// Temperature is an immutable reading in degrees Celsius.
type Temperature struct {
	celsius float64
}

func FromCelsius(v float64) Temperature {
	return Temperature{celsius: v}
}

func FromFahrenheit(v float64) Temperature {
	return Temperature{celsius: (v - 32) * 5 / 9}
}

// New builds a Temperature from a value expressed in u.
func New(v float64, u Unit) Temperature {
	if u == Fahrenheit {
		return FromFahrenheit(v)
	}

	return FromCelsius(v)
}

func (t Temperature) Celsius() float64 {
	return t.celsius
}

func (t Temperature) Fahrenheit() float64 {
	return t.celsius*9/5 + 32
}

// In returns the value expressed in u.
func (t Temperature) In(u Unit) float64 {
	if u == Fahrenheit {
		return t.Fahrenheit()
	}

	return t.celsius
}
