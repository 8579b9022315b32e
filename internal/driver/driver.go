// Package driver feeds readings to a monitor in order, numbering them from 0.
package driver

import (
	"context"
	"fmt"
	"io"

	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/logger"
	"codeberg.org/mutker/tempwatch/internal/monitor"
	"codeberg.org/mutker/tempwatch/internal/reading"
)

// Emit receives each notification as soon as it is produced
type Emit func(monitor.Notification) error

// Feed records all readings and returns the accumulated notifications.
func Feed(m *monitor.Monitor, readings []reading.Reading) ([]monitor.Notification, error) {
	var all []monitor.Notification
	for i, r := range readings {
		ns, err := m.Record(r.Value, r.Unit, i)
		if err != nil {
			return all, wrapIndex(i, err)
		}
		all = append(all, ns...)
	}

	logger.Debug().
		Int("readings", len(readings)).
		Int("notifications", len(all)).
		Msg("Readings processed")

	return all, nil
}

// Stream records readings from r line by line until EOF or until ctx is
// cancelled, passing notifications to emit. It returns the number of
// readings recorded.
func Stream(ctx context.Context, m *monitor.Monitor, r io.Reader, emit Emit) (int, error) {
	errFactory := errors.New()

	// Releases the scanner goroutine on every return path
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readings := make(chan reading.Reading)
	scanErr := make(chan error, 1)

	go func() {
		defer close(readings)
		sc := reading.NewScanner(r)
		for sc.Scan() {
			select {
			case readings <- sc.Reading():
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- sc.Err()
	}()

	index := 0
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Int("readings", index).Msg("Stream cancelled")
			return index, nil
		case rd, ok := <-readings:
			if !ok {
				if err := <-scanErr; err != nil {
					return index, errFactory.Wrap(errors.ErrFeedReadings, err)
				}
				return index, nil
			}

			ns, err := m.Record(rd.Value, rd.Unit, index)
			if err != nil {
				return index, wrapIndex(index, err)
			}
			index++

			for _, n := range ns {
				if err := emit(n); err != nil {
					return index, errFactory.Wrap(errors.ErrWriteReport, err)
				}
			}
		}
	}
}

func wrapIndex(index int, err error) error {
	return errors.New().Wrap(errors.ErrFeedReadings, fmt.Errorf("reading %d: %w", index, err))
}
