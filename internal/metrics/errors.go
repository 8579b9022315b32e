package metrics

import "codeberg.org/mutker/tempwatch/internal/errors"

const (
	ErrInvalidAddr = errors.ErrorCode("metrics_invalid_addr")
	ErrServe       = errors.ErrServeMetrics
	ErrShutdown    = errors.ErrShutdownFailed
)
