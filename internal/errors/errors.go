package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"goadf/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
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

// Wrap wraps an error with additional context, keeping the code of an
// underlying AppError or the kind of an underlying domain error.
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

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error kinds reported to callers
const (
	CodeInsufficientData = "InsufficientDataError"
	CodeInvalidSeries    = "InvalidSeriesError"
	CodeLagInfeasible    = "LagInfeasibleError"
	CodeSingularDesign   = "SingularDesignError"
	CodeConfigInvalid    = "InvalidConfigError"
	CodeCanceled         = "CanceledError"
	CodeInternalError    = "InternalError"
)

var domainCodes = []struct {
	sentinel error
	code     string
}{
	{core.ErrInsufficientData, CodeInsufficientData},
	{core.ErrInvalidSeries, CodeInvalidSeries},
	{core.ErrLagInfeasible, CodeLagInfeasible},
	{core.ErrSingularDesign, CodeSingularDesign},
	{core.ErrInvalidConfig, CodeConfigInvalid},
}

// FromDomain classifies err by the domain sentinel it wraps. An AppError is
// returned unchanged; nil stays nil.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	for _, dc := range domainCodes {
		if stderrors.Is(err, dc.sentinel) {
			return &AppError{Code: dc.code, Message: err.Error(), Cause: err}
		}
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: CodeCanceled, Message: err.Error(), Cause: err}
	}
	return &AppError{Code: CodeInternalError, Message: err.Error(), Cause: err}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
