package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION"
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeRateLimit   ErrorType = "RATE_LIMIT"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
	ErrorTypeExternal    ErrorType = "EXTERNAL"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
)

// Stable error codes surfaced to API clients.
const (
	CodeEmptyInput                = "EMPTY_INPUT"
	CodeInvalidKeyword            = "INVALID_KEYWORD"
	CodeInvalidRequest            = "INVALID_REQUEST"
	CodeTextTooLong               = "TEXT_TOO_LONG"
	CodeUnsupportedFormat         = "UNSUPPORTED_FORMAT"
	CodeGrammarServiceUnavailable = "GRAMMAR_SERVICE_UNAVAILABLE"
	CodeRateLimited               = "RATE_LIMITED"
	CodeInternal                  = "INTERNAL_ERROR"
	CodeNotFound                  = "NOT_FOUND"
	CodeMethodNotAllowed          = "METHOD_NOT_ALLOWED"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single error detail
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithStatus overrides the HTTP status
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var stack strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&stack, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack.String()
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Code:       CodeInvalidRequest,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewEmptyInputError reports text that is blank after trimming.
func NewEmptyInputError() *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    "text is required and cannot be blank",
		Code:       CodeEmptyInput,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewInvalidKeywordError reports a keyword that cannot be inserted.
func NewInvalidKeywordError(reason string) *AppError {
	message := "keyword is required and cannot be blank"
	if reason != "" {
		message = reason
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Code:       CodeInvalidKeyword,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewTextTooLongError reports input above the configured size limit
func NewTextTooLongError(limit int) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("text exceeds maximum length of %d characters", limit),
		Code:       CodeTextTooLong,
		Details:    map[string]interface{}{"max_length": limit},
		HTTPStatus: http.StatusRequestEntityTooLarge,
		StackTrace: captureStackTrace(),
	}
}

// NewUnsupportedFormatError reports an input format that cannot be converted to plain text
func NewUnsupportedFormatError(format string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("unable to read text in format '%s'", format),
		Code:       CodeUnsupportedFormat,
		Cause:      cause,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewGrammarServiceUnavailableError wraps a failure of the upstream grammar checker
func NewGrammarServiceUnavailableError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    "grammar check failed: grammar service is unavailable",
		Code:       CodeGrammarServiceUnavailable,
		Cause:      cause,
		HTTPStatus: http.StatusServiceUnavailable,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		Code:       CodeInternal,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s '%s' not found", resource, id),
		Code:       CodeNotFound,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewMethodNotAllowedError reports a known path called with the wrong method
func NewMethodNotAllowedError(method, path string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    fmt.Sprintf("method %s is not allowed on %s", method, path),
		Code:       CodeMethodNotAllowed,
		HTTPStatus: http.StatusMethodNotAllowed,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window),
		Code:       CodeRateLimited,
		HTTPStatus: http.StatusTooManyRequests,
		StackTrace: captureStackTrace(),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// HasCode checks if an error carries a specific code
func HasCode(err error, code string) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsEmptyInput checks if an error is an EmptyInput failure
func IsEmptyInput(err error) bool {
	return HasCode(err, CodeEmptyInput)
}

// IsInvalidKeyword checks if an error is an InvalidKeyword failure
func IsInvalidKeyword(err error) bool {
	return HasCode(err, CodeInvalidKeyword)
}

// IsGrammarServiceUnavailable checks if an error is a grammar upstream failure
func IsGrammarServiceUnavailable(err error) bool {
	return HasCode(err, CodeGrammarServiceUnavailable)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		return fmt.Errorf("%s: %w", message, err)
	}

	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
