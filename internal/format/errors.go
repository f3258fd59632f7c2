package format

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic indicates the header magic is not 0xD00DFEED.
	ErrBadMagic = errors.New("format: bad magic")
	// ErrTruncated indicates the buffer is smaller than the fixed header.
	ErrTruncated = errors.New("format: truncated header")
	// ErrEmpty indicates a declared total size of zero.
	ErrEmpty = errors.New("format: empty blob")
	// ErrBounds indicates an offset or length outside its validated region.
	ErrBounds = errors.New("format: offset out of bounds")
	// ErrBadToken indicates an unexpected or unknown structure token.
	ErrBadToken = errors.New("format: malformed token")
	// ErrUnterminated indicates a name without a NUL inside its region.
	ErrUnterminated = errors.New("format: unterminated string")
	// ErrEncoding indicates name bytes that are not valid UTF-8.
	ErrEncoding = errors.New("format: invalid encoding")
)

// DecodeError records where in a region a decode step failed. Err is always
// one of the package sentinels.
type DecodeError struct {
	Op     string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at 0x%x: %v", e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func fail(op string, off int, err error) error {
	return &DecodeError{Op: op, Offset: off, Err: err}
}
