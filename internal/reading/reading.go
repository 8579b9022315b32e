// Package reading parses the (value, unit) pairs fed to the monitor from
// command line arguments, configuration and line oriented streams.
package reading

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/mutker/tempwatch/internal/errors"
)

// Reading is a raw temperature sample. The unit is validated by the monitor.
type Reading struct {
	Value float64
	Unit  string
}

// Demo returns the sample readings used when no input is supplied.
func Demo() []Reading {
	return []Reading{
		{1.0, "C"}, {0.0, "C"}, {-2.0, "C"}, {0.0, "C"}, {0.2, "C"}, {0.0, "C"},
	}
}

// Parse reads a value followed by a unit, e.g. "21.5C", "212 °F", "-0.4,c".
func Parse(s string) (Reading, error) {
	errFactory := errors.New()

	s = strings.TrimSpace(s)
	split := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if split >= 0 {
		_, size := utf8.DecodeRuneInString(s[split:])
		split += size
	} else {
		split = 0
	}
	value := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s[:split]), ",°"))
	unit := s[split:]

	if value == "" || unit == "" {
		return Reading{}, errFactory.WithData(ErrInvalidReading, s)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Reading{}, errFactory.WithData(ErrInvalidReading, s)
	}

	return Reading{Value: v, Unit: unit}, nil
}

// ParseAll parses every argument in order.
func ParseAll(args []string) ([]Reading, error) {
	out := make([]Reading, 0, len(args))
	for _, a := range args {
		r, err := Parse(a)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, nil
}

// Scanner reads one reading per line, skipping blank lines and # comments.
type Scanner struct {
	sc   *bufio.Scanner
	line int
	cur  Reading
	err  error
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		r, err := Parse(text)
		if err != nil {
			s.err = errors.New().WithData(ErrInvalidReading, struct {
				Line int
				Text string
			}{
				Line: s.line,
				Text: text,
			})
			return false
		}
		s.cur = r
		return true
	}

	if err := s.sc.Err(); err != nil {
		s.err = errors.New().Wrap(ErrReadInput, err)
	}

	return false
}

func (s *Scanner) Reading() Reading {
	return s.cur
}

func (s *Scanner) Err() error {
	return s.err
}
