package reading

import "codeberg.org/mutker/tempwatch/internal/errors"

const (
	ErrInvalidReading = errors.ErrorCode("invalid_reading")
	ErrReadInput      = errors.ErrorCode("read_input_failed")
)
