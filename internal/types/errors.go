package types

import (
	"errors"
	"fmt"
)

// ErrorKind categorises engine failures
type ErrorKind int

const (
	KindInvalidArgument ErrorKind = iota + 1
	KindIO
	KindFormat
	KindNotImplemented
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindIO:
		return "i/o error"
	case KindFormat:
		return "format error"
	case KindNotImplemented:
		return "not implemented"
	default:
		return "unknown error"
	}
}

// Sentinel errors, one per kind, usable with errors.Is
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIO              = errors.New("i/o error")
	ErrFormat          = errors.New("format error")
	ErrNotImplemented  = errors.New("not implemented")
)

// EngineError is the error type returned by every engine operation
type EngineError struct {
	Kind  ErrorKind
	Op    string
	Path  string
	Msg   string
	Cause error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error kind
func (e *EngineError) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrIO:
		return e.Kind == KindIO
	case ErrFormat:
		return e.Kind == KindFormat
	case ErrNotImplemented:
		return e.Kind == KindNotImplemented
	}
	return false
}

// NewEngineError creates an EngineError
func NewEngineError(kind ErrorKind, op, path, msg string, cause error) *EngineError {
	return &EngineError{Kind: kind, Op: op, Path: path, Msg: msg, Cause: cause}
}

// IOError wraps an i/o failure on path
func IOError(op, path string, cause error) *EngineError {
	return NewEngineError(KindIO, op, path, "", cause)
}

// FormatError reports malformed content at path
func FormatError(op, path, format string, args ...any) *EngineError {
	return NewEngineError(KindFormat, op, path, fmt.Sprintf(format, args...), nil)
}

// InvalidArgument reports a rejected argument
func InvalidArgument(op, format string, args ...any) *EngineError {
	return NewEngineError(KindInvalidArgument, op, "", fmt.Sprintf(format, args...), nil)
}

// NotImplemented reports a recognised but unsupported request
func NotImplemented(op, path, format string, args ...any) *EngineError {
	return NewEngineError(KindNotImplemented, op, path, fmt.Sprintf(format, args...), nil)
}

// KindOf extracts the ErrorKind from err, returning 0 for foreign errors
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}
