package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindPrematureEnd
	KindUnexpectedByte
	KindNotAnInteger
	KindNotAFloat
	KindMalformedStream
	KindCorruptXrefEntry
	KindInvalidHeader
	KindUnexpectedTrailingData
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindPrematureEnd:
		return "PrematureEnd"
	case KindUnexpectedByte:
		return "UnexpectedByte"
	case KindNotAnInteger:
		return "NotAnInteger"
	case KindNotAFloat:
		return "NotAFloat"
	case KindMalformedStream:
		return "MalformedStream"
	case KindCorruptXrefEntry:
		return "CorruptXrefEntry"
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindUnexpectedTrailingData:
		return "UnexpectedTrailingData"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. A *ParseError matches the sentinel of its kind.
var (
	ErrPrematureEnd           = &ParseError{Kind: KindPrematureEnd, Offset: -1}
	ErrUnexpectedByte         = &ParseError{Kind: KindUnexpectedByte, Offset: -1}
	ErrNotAnInteger           = &ParseError{Kind: KindNotAnInteger, Offset: -1}
	ErrNotAFloat              = &ParseError{Kind: KindNotAFloat, Offset: -1}
	ErrMalformedStream        = &ParseError{Kind: KindMalformedStream, Offset: -1}
	ErrCorruptXrefEntry       = &ParseError{Kind: KindCorruptXrefEntry, Offset: -1}
	ErrInvalidHeader          = &ParseError{Kind: KindInvalidHeader, Offset: -1}
	ErrUnexpectedTrailingData = &ParseError{Kind: KindUnexpectedTrailingData, Offset: -1}
)

// ParseError is the error type returned by the parser. Offset is the
// absolute byte offset at which the failure was detected, or -1 if unknown.
type ParseError struct {
	Kind   ErrorKind
	Offset int64
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the ErrorKind of the first *ParseError in err's chain.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, offset int64, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
