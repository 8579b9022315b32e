package journal

import (
	"context"
	"time"

	"codeberg.org/mutker/tempwatch/internal/monitor"
)

// Journal records emitted notifications
type Journal interface {
	Record(ctx context.Context, n monitor.Notification) error
	Close() error
	RunID() string
}

// Repository defines the interface for notification storage
type Repository interface {
	Record(entry *Entry) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Entry is one stored notification
type Entry struct {
	RunID        string
	RecordedAt   time.Time
	Notification monitor.Notification
}
