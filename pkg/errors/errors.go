// Package errors provides the unified error type used by every layer of the
// trademark search service. Domain, application, infrastructure and interface
// code all return *AppError so that HTTP responses, CLI exit messages, logs and
// metrics agree on a single failure classification.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stack capture
// ─────────────────────────────────────────────────────────────────────────────

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the structured error carried across the service. It supports
// errors.Is / errors.As / errors.Unwrap through Unwrap.
//
// Usage:
//
//	return errors.New(errors.CodeInvalidCriteria, "at least one search field is required")
//	return errors.Wrap(err, errors.CodeBackendUnavailable, "count candidates")
type AppError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is the human-readable description returned to callers.
	Message string

	// Detail carries supplementary context (field names, identifiers).
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is the call-stack captured at creation. Never part of Error().
	Stack string
}

// Error implements the error interface.
// Format: "[<code>] <message>: <detail>: <cause>"; empty segments are omitted.
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Code.String())
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe on a nil receiver.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with fmt-style formatting.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps err. A nil err yields nil.
//
// When err already carries an *AppError and code is CodeUnknown the original
// code is preserved so that cross-layer propagation keeps the classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// InvalidCriteria constructs a CodeInvalidCriteria error.
func InvalidCriteria(message string) *AppError {
	return &AppError{Code: CodeInvalidCriteria, Message: message, Stack: captureStack(1)}
}

// BackendUnavailable wraps a registry failure.
func BackendUnavailable(err error, message string) *AppError {
	return &AppError{Code: CodeBackendUnavailable, Message: message, Cause: err, Stack: captureStack(1)}
}

// NotFound constructs a CodeNotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs a CodeInvalidParam error.
func InvalidParam(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message, Stack: captureStack(1)}
}

// Internal constructs a CodeInternal error.
func Internal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Stack: captureStack(1)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any *AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Cause
	}
	return false
}

// IsNotFound reports whether err's chain contains a not-found classification.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound) || IsCode(err, CodeTrademarkNotFound)
}

// IsInvalidCriteria reports whether err's chain contains a criteria error.
func IsInvalidCriteria(err error) bool {
	return IsCode(err, CodeInvalidCriteria)
}

// IsBackendUnavailable reports whether err's chain contains a registry outage.
func IsBackendUnavailable(err error) bool {
	return IsCode(err, CodeBackendUnavailable)
}

// IsValidation reports whether err is any user-correctable input error.
func IsValidation(err error) bool {
	return IsCode(err, CodeInvalidCriteria) || IsCode(err, CodeInvalidParam) ||
		IsCode(err, ErrCodeValidation) || IsCode(err, ErrCodeUnsupportedMode)
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Is and As re-export the standard library helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target interface{}) bool { return errors.As(err, target) }

//Personal.AI order the ending
