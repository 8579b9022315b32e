package temperature

import "codeberg.org/mutker/tempwatch/internal/errors"

const (
	ErrInvalidUnit = errors.ErrorCode("invalid_unit")
)
