// Package errors is the error taxonomy shared by the SDK client, the view
// controllers and both interfaces.  Failures travel as *AppError so any
// layer can classify them by code.
package errors

import (
	"errors"
	"strings"
)

// AppError is a coded failure.  Cause, when set, is exposed to errors.Is
// and errors.As.
//
//	return errors.InvalidParam("k must be between 2 and 10")
//	return errors.Wrap(err, errors.CodeTransport, "fetch compare stats")
type AppError struct {
	Code    ErrorCode
	Message string
	// Detail names what failed: a feature, a category, a view.
	Detail string
	Cause  error
}

// Error renders "[code] message: detail: cause", dropping empty parts.
func (e *AppError) Error() string {
	parts := []string{"[" + e.Code.String() + "] " + e.Message}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail returns a copy of e with Detail set.  Nil stays nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	c := *e
	c.Detail = detail
	return &c
}

// New returns an AppError with no cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap returns nil for a nil err.  CodeUnknown keeps the code of an
// AppError already in err's chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		code = GetCode(err)
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func NotFound(message string) *AppError      { return New(CodeNotFound, message) }
func InvalidParam(message string) *AppError  { return New(CodeInvalidParam, message) }
func InvalidConfig(message string) *AppError { return New(CodeInvalidConfig, message) }
func Internal(message string) *AppError      { return New(CodeInternal, message) }

// Transport marks a request that never produced a usable response.
func Transport(message string, cause error) *AppError {
	return &AppError{Code: CodeTransport, Message: message, Cause: cause}
}

// Decode marks a response body that did not match its schema.
func Decode(message string, cause error) *AppError {
	return &AppError{Code: CodeDecode, Message: message, Cause: cause}
}

// IsCode reports whether any AppError in err's chain carries code.
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

func IsNotFound(err error) bool { return IsCode(err, CodeNotFound) }

// IsStale reports whether err marks a superseded fetch.
func IsStale(err error) bool { return IsCode(err, CodeStale) }

// GetCode is the code of the outermost AppError in err's chain: CodeOK for
// nil, CodeUnknown when there is none.
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

func Is(err, target error) bool             { return errors.Is(err, target) }
func As(err error, target interface{}) bool { return errors.As(err, target) }

// ErrInvalidConfig is matched with errors.Is by callers that only care
// whether settings were rejected.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrStale is returned to the caller of a fetch superseded before it
// resolved.  Its result is never applied.
var ErrStale = New(CodeStale, "superseded by a newer request")
