// Package errors provides unified error handling across powershell-forge.
//
// SYSTEM ARCHITECTURE ROLE:
// Every failure raised by the catalog, the script workspace, the AI mediator and
// the persistence codec is an *AppError. Interfaces (CLI, HTTP, TUI) format the
// same AppError differently through the handlers in handlers.go.
//
// KEY RESPONSIBILITIES:
// - Define the error codes for validation, bundle, drag payload and AI service failures
// - Derive category and severity from the code so callers only pick a code
// - Keep the cause chain intact (Unwrap) so errors.Is/As keep working
//
// INTEGRATION POINTS:
// - internal/catalog: EmptyNameError, DuplicateIDError, DuplicateParameterError
// - internal/codec: MalformedBundleError
// - internal/dragdrop: DragPayloadError
// - internal/ai: EmptyDescriptionError, ExternalServiceError, StaleResultError
// - internal/api/server.go: HTTPErrorHandler maps codes to status codes
// - internal/cli/cli.go: CLIErrorHandler formats errors for the terminal
// - internal/ui/model.go: TUIErrorHandler picks status line styling
//
// USAGE PATTERNS:
// - Create errors with the constructors at the bottom of this file
// - Test for a specific failure with HasCode or IsCategory
// - Wrap foreign errors with Wrap to attach a code
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField       ErrorCode = "MISSING_FIELD"
	ErrCodeEmptyName          ErrorCode = "EMPTY_NAME"
	ErrCodeDuplicateID        ErrorCode = "DUPLICATE_ID"
	ErrCodeDuplicateParameter ErrorCode = "DUPLICATE_PARAMETER"
	ErrCodeEmptyDescription   ErrorCode = "EMPTY_DESCRIPTION"
	ErrCodeEmptyContext       ErrorCode = "EMPTY_CONTEXT"

	// Import errors
	ErrCodeMalformedBundle     ErrorCode = "MALFORMED_BUNDLE"
	ErrCodeDragPayload         ErrorCode = "DRAG_PAYLOAD_INVALID"
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"

	// Generation service errors
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_FAILURE"
	ErrCodeServiceTimeout  ErrorCode = "SERVICE_TIMEOUT"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrCodeAIDisabled      ErrorCode = "AI_DISABLED"

	// Concurrency outcomes
	ErrCodeRequestInFlight ErrorCode = "REQUEST_IN_FLIGHT"
	ErrCodeStaleResult     ErrorCode = "STALE_RESULT"
	ErrCodeStaleEdit       ErrorCode = "STALE_EDIT"
	ErrCodeCanceled        ErrorCode = "CANCELED"

	// Resource errors
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeClipboard      ErrorCode = "CLIPBOARD_UNAVAILABLE"
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "validation"
	CategoryImport      ErrorCategory = "import"
	CategoryExternal    ErrorCategory = "external"
	CategoryConcurrency ErrorCategory = "concurrency"
	CategoryStorage     ErrorCategory = "storage"
	CategorySystem      ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the user may retry the operation
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeEmptyName,
		ErrCodeDuplicateID, ErrCodeDuplicateParameter, ErrCodeEmptyDescription, ErrCodeEmptyContext:
		return CategoryValidation, SeverityWarning

	case ErrCodeMalformedBundle, ErrCodeDragPayload, ErrCodeUnsupportedFileType:
		return CategoryImport, SeverityWarning

	case ErrCodeExternalService, ErrCodeServiceTimeout, ErrCodeUnauthorized, ErrCodeRateLimited:
		return CategoryExternal, SeverityError
	case ErrCodeAIDisabled:
		return CategoryExternal, SeverityInfo

	case ErrCodeRequestInFlight, ErrCodeStaleEdit:
		return CategoryConcurrency, SeverityWarning
	case ErrCodeStaleResult, ErrCodeCanceled:
		return CategoryConcurrency, SeverityInfo

	case ErrCodeNotFound, ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo
	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError

	case ErrCodeClipboard:
		return CategorySystem, SeverityWarning
	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical

	default:
		return CategorySystem, SeverityError
	}
}

// Failed generation calls are never retried automatically; Retryable only
// tells the user that trying again may succeed.
func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeExternalService, ErrCodeServiceTimeout, ErrCodeRateLimited, ErrCodeRequestInFlight:
		return true
	case ErrCodeStorageFailure:
		return true
	default:
		return false
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// IsCategory reports whether err is an AppError of the given category
func IsCategory(err error, category ErrorCategory) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Category == category
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return IsCategory(err, CategoryValidation)
}

// Common error constructors

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func EmptyNameError() *AppError {
	return NewAppError(ErrCodeEmptyName, "Command name is required")
}

func DuplicateIDError(id string) *AppError {
	return NewAppError(ErrCodeDuplicateID, fmt.Sprintf("A command with id '%s' already exists", id)).
		WithContext("id", id)
}

func DuplicateParameterError(name string) *AppError {
	return NewAppError(ErrCodeDuplicateParameter, fmt.Sprintf("Parameter '%s' is declared more than once", name)).
		WithContext("parameter", name)
}

func EmptyDescriptionError() *AppError {
	return NewAppError(ErrCodeEmptyDescription, "Describe what the script should do before generating")
}

func EmptyContextError() *AppError {
	return NewAppError(ErrCodeEmptyContext, "The script is empty; write or generate something before asking for suggestions")
}

func MalformedBundleError(reason string) *AppError {
	return NewAppError(ErrCodeMalformedBundle, "Invalid scripts bundle").WithDetails(reason)
}

func DragPayloadError(reason string, cause error) *AppError {
	return Wrap(cause, ErrCodeDragPayload, "Dropped item is not a command").WithDetails(reason)
}

func ExternalServiceError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeExternalService, fmt.Sprintf("Generation service failed: %s", operation))
}

func StaleResultError(operation string) *AppError {
	return NewAppError(ErrCodeStaleResult, fmt.Sprintf("Discarded %s result: the script changed while it was pending", operation))
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}
