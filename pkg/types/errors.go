package types

import "fmt"

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidMagic       ErrKind = iota + 1 // header magic is not 0xD00DFEED
	ErrKindEmptyBlob                             // declared total size is zero
	ErrKindTruncatedHeader                       // buffer shorter than the fixed header
	ErrKindOffsetOutOfBounds                     // block/name/value outside validated bounds
	ErrKindMalformedToken                        // unknown or misplaced structure token
	ErrKindUnterminatedString                    // name without a NUL inside its region
	ErrKindInvalidEncoding                       // name bytes that are not UTF-8
	ErrKindNotFound                              // missing node or property
	ErrKindDepthExceeded                         // traversal deeper than the configured limit
	ErrKindUnsupportedVersion                    // last_comp_version newer than this decoder
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidMagic:
		return "InvalidMagic"
	case ErrKindEmptyBlob:
		return "EmptyBlob"
	case ErrKindTruncatedHeader:
		return "TruncatedHeader"
	case ErrKindOffsetOutOfBounds:
		return "OffsetOutOfBounds"
	case ErrKindMalformedToken:
		return "MalformedToken"
	case ErrKindUnterminatedString:
		return "UnterminatedString"
	case ErrKindInvalidEncoding:
		return "InvalidEncoding"
	case ErrKindNotFound:
		return "NotFound"
	case ErrKindDepthExceeded:
		return "DepthExceeded"
	case ErrKindUnsupportedVersion:
		return "UnsupportedVersion"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause. Offset is the
// byte offset the failure was detected at (relative to the region named in
// Msg), or -1 when no single offset applies.
type Error struct {
	Kind   ErrKind
	Offset int
	Msg    string
	Err    error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so the package
// sentinels match any error in their category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is. They carry no offset.
var (
	ErrInvalidMagic       = &Error{Kind: ErrKindInvalidMagic, Offset: -1, Msg: "invalid magic"}
	ErrEmptyBlob          = &Error{Kind: ErrKindEmptyBlob, Offset: -1, Msg: "empty blob"}
	ErrTruncatedHeader    = &Error{Kind: ErrKindTruncatedHeader, Offset: -1, Msg: "truncated header"}
	ErrOffsetOutOfBounds  = &Error{Kind: ErrKindOffsetOutOfBounds, Offset: -1, Msg: "offset out of bounds"}
	ErrMalformedToken     = &Error{Kind: ErrKindMalformedToken, Offset: -1, Msg: "malformed token"}
	ErrUnterminatedString = &Error{Kind: ErrKindUnterminatedString, Offset: -1, Msg: "unterminated string"}
	ErrInvalidEncoding    = &Error{Kind: ErrKindInvalidEncoding, Offset: -1, Msg: "invalid encoding"}
	ErrNotFound           = &Error{Kind: ErrKindNotFound, Offset: -1, Msg: "not found"}
	ErrDepthExceeded      = &Error{Kind: ErrKindDepthExceeded, Offset: -1, Msg: "maximum depth exceeded"}
	ErrUnsupportedVersion = &Error{Kind: ErrKindUnsupportedVersion, Offset: -1, Msg: "unsupported version"}
)

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrKind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}
