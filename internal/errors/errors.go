package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"statlab/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped
// AppError or deriving one from the domain error kind.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(FromDomain(err)),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidParameter    = "INVALID_PARAMETER"
	CodeInsufficientData    = "INSUFFICIENT_DATA"
	CodeInsufficientStudies = "INSUFFICIENT_STUDIES"
	CodeUnsupportedMethod   = "UNSUPPORTED_METHOD"
	CodeDegenerateInput     = "DEGENERATE_INPUT"
	CodeCancelled           = "CANCELLED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// FromDomain classifies err by its domain kind. AppErrors pass through
// unchanged; nil stays nil.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	var code string
	switch {
	case stderrors.Is(err, core.ErrInsufficientStudies):
		code = CodeInsufficientStudies
	case stderrors.Is(err, core.ErrInsufficientData):
		code = CodeInsufficientData
	case stderrors.Is(err, core.ErrInvalidParameter):
		code = CodeInvalidParameter
	case stderrors.Is(err, core.ErrUnsupportedMethod):
		code = CodeUnsupportedMethod
	case stderrors.Is(err, core.ErrDegenerateInput):
		code = CodeDegenerateInput
	case isCancellation(err):
		code = CodeCancelled
	default:
		code = CodeInternalError
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error onto a process exit status: 0 for nil, 2 for bad
// input or configuration, 3 for data that cannot support the analysis,
// 130 for cancellation and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(FromDomain(err)) {
	case CodeConfigInvalid, CodeInvalidInput, CodeInvalidParameter, CodeUnsupportedMethod:
		return 2
	case CodeInsufficientData, CodeInsufficientStudies, CodeDegenerateInput:
		return 3
	case CodeCancelled:
		return 130
	}
	return 1
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
