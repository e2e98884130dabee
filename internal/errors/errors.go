package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes
const (
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable     = "FILE_NOT_READABLE"
	ErrCodeFileTooLarge        = "FILE_TOO_LARGE"
	ErrCodeInvalidFormat       = "INVALID_FORMAT"
	ErrCodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	ErrCodeExtractionFailed    = "EXTRACTION_FAILED"
	ErrCodeEmptyDocument       = "EMPTY_DOCUMENT"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeAIServiceFailed     = "AI_SERVICE_FAILED"
	ErrCodeAIResponseInvalid   = "AI_RESPONSE_INVALID"
	ErrCodeMissingAPIKey       = "MISSING_API_KEY"
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewExtractionError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeExtraction, code, message, cause)
}

func NewAIError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAI, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// AsAppError returns the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err's chain holds an AppError of the given type
func IsType(err error, typ ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type == typ
}

// HTTPStatus maps an error to the status code the transport reports for it.
// Validation errors are client errors; everything else is a server failure.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch {
	case appErr.Type == ErrorTypeValidation && appErr.Code == ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case appErr.Type == ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
