// Package journal keeps an optional sqlite record of emitted notifications.
package journal

import (
	"context"
	"time"

	"codeberg.org/mutker/tempwatch/internal/errors"
	"codeberg.org/mutker/tempwatch/internal/logger"
	"codeberg.org/mutker/tempwatch/internal/monitor"
	"github.com/google/uuid"
)

type service struct {
	repo  Repository
	cfg   Config
	runID string
	now   func() time.Time
}

// No-op implementation
type noopJournal struct {
	runID string
}

// New opens the journal described by cfg. A disabled journal records nothing.
func New(cfg Config, log logger.Logger) (Journal, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	runID := uuid.NewString()

	if !cfg.Enabled {
		log.Debug().Msg("Journal disabled, using no-op journal")
		return &noopJournal{runID: runID}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create journal repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Str("run_id", runID).
		Msg("Journal service initialized successfully")

	return &service{
		repo:  repo,
		cfg:   cfg,
		runID: runID,
		now:   time.Now,
	}, nil
}

func (s *service) Record(ctx context.Context, n monitor.Notification) error {
	errFactory := errors.New()

	if n.ThresholdName == "" {
		return errFactory.New(ErrInvalidNotification)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		entry := &Entry{
			RunID:        s.runID,
			RecordedAt:   s.now().UTC(),
			Notification: n,
		}
		if err := s.repo.Record(entry); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) RunID() string {
	return s.runID
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*noopJournal) Record(_ context.Context, _ monitor.Notification) error {
	return nil
}

func (j *noopJournal) RunID() string {
	return j.runID
}

func (*noopJournal) Close() error {
	return nil
}
