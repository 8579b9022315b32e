package monitor

import "codeberg.org/mutker/tempwatch/internal/errors"

const (
	ErrDuplicateThresholdName = errors.ErrorCode("duplicate_threshold_name")
)
