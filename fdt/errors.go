package fdt

import (
	"errors"

	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/pkg/types"
)

// wrapFormatErr maps a decoder failure onto the public error categories,
// keeping the offset it was detected at.
func wrapFormatErr(err error) error {
	if err == nil {
		return nil
	}
	off := -1
	var de *format.DecodeError
	if errors.As(err, &de) {
		off = de.Offset
	}
	return &types.Error{Kind: kindOf(err), Offset: off, Msg: "fdt", Err: err}
}

func kindOf(err error) types.ErrKind {
	switch {
	case errors.Is(err, format.ErrBadMagic):
		return types.ErrKindInvalidMagic
	case errors.Is(err, format.ErrEmpty):
		return types.ErrKindEmptyBlob
	case errors.Is(err, format.ErrTruncated):
		return types.ErrKindTruncatedHeader
	case errors.Is(err, format.ErrBounds):
		return types.ErrKindOffsetOutOfBounds
	case errors.Is(err, format.ErrUnterminated):
		return types.ErrKindUnterminatedString
	case errors.Is(err, format.ErrEncoding):
		return types.ErrKindInvalidEncoding
	default:
		return types.ErrKindMalformedToken
	}
}

// structErr builds an error for a structural problem found by this package
// rather than by the format decoder.
func structErr(kind types.ErrKind, off int, msg string) error {
	return &types.Error{Kind: kind, Offset: off, Msg: msg}
}
