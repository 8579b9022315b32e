// Package report renders monitor notifications for people and pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/monitor"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", errors.New().WithData(errors.ErrInvalidFormat, s)
	}
}

// Message formats a notification as a single human readable sentence.
func Message(n monitor.Notification) string {
	return fmt.Sprintf("Threshold '%s' (%.2f°%s with a tolerance of %s) reached from %s at index: %d.",
		n.ThresholdName,
		n.TargetValue,
		n.TargetUnit,
		strconv.FormatFloat(n.Tolerance, 'f', -1, 64),
		n.Direction,
		n.Index,
	)
}

// Messages formats every notification in order.
func Messages(ns []monitor.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, Message(n))
	}

	return out
}

type record struct {
	Threshold   string  `json:"threshold"`
	TargetValue float64 `json:"target_value"`
	TargetUnit  string  `json:"target_unit"`
	Tolerance   float64 `json:"tolerance"`
	Direction   string  `json:"direction"`
	Index       int     `json:"index"`
	Celsius     float64 `json:"celsius"`
	Message     string  `json:"message"`
}

// Writer prints notifications one per line.
type Writer struct {
	out    io.Writer
	format Format
	enc    *json.Encoder
}

func NewWriter(out io.Writer, format Format) *Writer {
	w := &Writer{out: out, format: format}
	if format == FormatJSON {
		w.enc = json.NewEncoder(out)
	}

	return w
}

func (w *Writer) Write(n monitor.Notification) error {
	if w.format == FormatJSON {
		return w.enc.Encode(record{
			Threshold:   n.ThresholdName,
			TargetValue: n.TargetValue,
			TargetUnit:  n.TargetUnit.String(),
			Tolerance:   n.Tolerance,
			Direction:   n.Direction.String(),
			Index:       n.Index,
			Celsius:     n.Celsius,
			Message:     Message(n),
		})
	}

	_, err := fmt.Fprintln(w.out, Message(n))
	return err
}

func (w *Writer) WriteAll(ns []monitor.Notification) error {
	for _, n := range ns {
		if err := w.Write(n); err != nil {
			return err
		}
	}

	return nil
}
