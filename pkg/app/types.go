package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeIO             = "IO_ERROR"
	ErrCodeFormat         = "FORMAT_ERROR"
	ErrCodePermission     = "PERMISSION_DENIED"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeCancelled      = "CANCELLED"
	ErrCodeNotImplemented = "NOT_IMPLEMENTED"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// FromEngineError wraps an engine failure in a CommonError whose code follows the
// error kind. It returns nil for a nil err.
func FromEngineError(message string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(ErrorCode(err), message, err)
}

// ErrorCode maps an error to the application error code that describes it
func ErrorCode(err error) string {
	var common *CommonError
	switch {
	case errors.As(err, &common):
		return common.Code
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return ErrCodeCancelled
	case errors.Is(err, fs.ErrPermission):
		return ErrCodePermission
	}

	switch types.KindOf(err) {
	case types.KindInvalidArgument:
		return ErrCodeInvalidInput
	case types.KindFormat:
		return ErrCodeFormat
	case types.KindNotImplemented:
		return ErrCodeNotImplemented
	default:
		return ErrCodeIO
	}
}
