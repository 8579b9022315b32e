package threshold

import "codeberg.org/mutker/tempwatch/internal/errors"

const (
	ErrInvalidDirection = errors.ErrorCode("invalid_direction")
	ErrInvalidArgument  = errors.ErrInvalidArgument
)
