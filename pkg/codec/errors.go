package codec

import (
	"errors"
	"fmt"
)

// Kind classifies a failure while reading or writing XH data.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotRecognized
	KindUnsupportedVersion
	KindTruncatedRecord
	KindUnmappedCode
	KindDecodeError
	KindNotImplemented
	KindCorruptHeader
)

func (k Kind) String() string {
	switch k {
	case KindNotRecognized:
		return "not recognized"
	case KindUnsupportedVersion:
		return "unsupported version"
	case KindTruncatedRecord:
		return "truncated record"
	case KindUnmappedCode:
		return "unmapped code"
	case KindDecodeError:
		return "decode error"
	case KindNotImplemented:
		return "not implemented"
	case KindCorruptHeader:
		return "corrupt header"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind. Use errors.Is against these.
var (
	ErrNotRecognized      = &Error{Kind: KindNotRecognized, Offset: -1}
	ErrUnsupportedVersion = &Error{Kind: KindUnsupportedVersion, Offset: -1}
	ErrTruncatedRecord    = &Error{Kind: KindTruncatedRecord, Offset: -1}
	ErrUnmappedCode       = &Error{Kind: KindUnmappedCode, Offset: -1}
	ErrDecode             = &Error{Kind: KindDecodeError, Offset: -1}
	ErrNotImplemented     = &Error{Kind: KindNotImplemented, Offset: -1}
	ErrCorruptHeader      = &Error{Kind: KindCorruptHeader, Offset: -1}
)

// Error is the error type returned by the XH codec and reader. Offset is the
// byte offset in the stream where the failure was detected, or -1 when the
// failure is not tied to a position.
type Error struct {
	Kind   Kind
	Offset int64
	Err    error
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, offset int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := "xh: " + e.Kind.String()
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrTruncatedRecord)
// works regardless of offset or detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// At returns a copy of e positioned at offset.
func (e *Error) At(offset int64) *Error {
	c := *e
	c.Offset = offset
	return &c
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Kind
	}
	return KindUnknown
}
