package serialization

import (
	"fmt"
	"strings"
)

type ParseErrorKind int

const (
	UnknownVariantTag ParseErrorKind = iota + 1
	TruncatedPayload
	ArityMismatch
	InvalidPayload
	TrailingBytes
	NestingTooDeep
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnknownVariantTag:
		return "unknown variant tag"
	case TruncatedPayload:
		return "truncated payload"
	case ArityMismatch:
		return "record arity mismatch"
	case InvalidPayload:
		return "invalid payload"
	case TrailingBytes:
		return "trailing bytes"
	case NestingTooDeep:
		return "nesting too deep"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned for any buffer that isn't a valid encoded dtype.
type ParseError struct {
	// Offset is the position in the buffer at which the problem was detected.
	Offset   int
	Kind     ParseErrorKind
	Expected string
	Found    string
	// Err is the underlying construction error, if any.
	Err error
}

func (e *ParseError) Error() string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "couldn't parse dtype at offset %d: %s", e.Offset, e.Kind)
	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(builder, " (expected %s, found %s)", e.Expected, e.Found)
	}
	if e.Err != nil {
		fmt.Fprintf(builder, ": %s", e.Err)
	}
	return builder.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(offset int, kind ParseErrorKind, expected, found string) *ParseError {
	return &ParseError{
		Offset:   offset,
		Kind:     kind,
		Expected: expected,
		Found:    found,
	}
}
