package dtype

import (
	"github.com/pkg/errors"
)

var (
	// ErrArityMismatch is returned when a record is built from a different number of names and field types.
	ErrArityMismatch = errors.New("record arity mismatch")
	// ErrInvalidPrecisionScale is returned for decimal precision/scale pairs outside the supported range.
	ErrInvalidPrecisionScale = errors.New("invalid decimal precision/scale")
)
