package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
	logger  *zap.Logger
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool, logger *zap.Logger) *CLIErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIErrorHandler{Verbose: verbose, logger: logger}
}

// HandleError logs err and returns it formatted for terminal display
func (h *CLIErrorHandler) HandleError(err error) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)
	h.logger.Debug("command failed",
		zap.String("code", string(appErr.Code)),
		zap.String("severity", string(appErr.Severity)),
		zap.Error(appErr.Cause))
	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.Verbose && appErr.Details != "" {
		message = fmt.Sprintf("%s (%s)", message, appErr.Details)
	}
	if h.Verbose && appErr.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, appErr.Cause)
	}

	switch appErr.Severity {
	case SeverityCritical:
		return "CRITICAL: " + message
	case SeverityError:
		return "ERROR: " + message
	case SeverityWarning:
		return "WARNING: " + message
	case SeverityInfo:
		return "INFO: " + message
	default:
		return message
	}
}

// HTTPErrorHandler handles errors for HTTP interface
type HTTPErrorHandler struct {
	IncludeDetails bool
	logger         *zap.Logger
}

// NewHTTPErrorHandler creates a new HTTP error handler
func NewHTTPErrorHandler(includeDetails bool, logger *zap.Logger) *HTTPErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPErrorHandler{IncludeDetails: includeDetails, logger: logger}
}

// HandleError logs the error and returns it as an AppError
func (h *HTTPErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	h.logger.Warn("request failed",
		zap.String("code", string(appErr.Code)),
		zap.String("category", string(appErr.Category)),
		zap.String("message", appErr.Message),
		zap.Error(appErr.Cause))
	return appErr
}

type httpErrorBody struct {
	Success bool          `json:"success"`
	Error   httpErrorInfo `json:"error"`
}

type httpErrorInfo struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Category  ErrorCategory          `json:"category"`
	Retryable bool                   `json:"retryable"`
	Details   string                 `json:"details,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// FormatError formats an error for HTTP response
func (h *HTTPErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	body := httpErrorBody{
		Error: httpErrorInfo{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Category:  appErr.Category,
			Retryable: appErr.Retryable,
		},
	}
	if h.IncludeDetails {
		body.Error.Details = appErr.Details
		body.Error.Context = appErr.Context
	}

	jsonBytes, _ := json.Marshal(body)
	return string(jsonBytes)
}

// WriteHTTPError writes an error response to HTTP
func (h *HTTPErrorHandler) WriteHTTPError(w http.ResponseWriter, err error) {
	appErr := GetAppError(err)
	h.HandleError(appErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(appErr))
	w.Write([]byte(h.FormatError(appErr)))
}

// StatusCode maps error codes to HTTP status codes
func StatusCode(appErr *AppError) int {
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeEmptyName,
		ErrCodeDuplicateParameter, ErrCodeEmptyDescription, ErrCodeEmptyContext,
		ErrCodeMalformedBundle, ErrCodeDragPayload:
		return http.StatusBadRequest
	case ErrCodeUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateID, ErrCodeRequestInFlight, ErrCodeStaleResult, ErrCodeStaleEdit:
		return http.StatusConflict
	case ErrCodeAIDisabled:
		return http.StatusForbidden
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeExternalService, ErrCodeUnauthorized:
		return http.StatusBadGateway
	case ErrCodeServiceTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// TUIErrorHandler handles errors for TUI interface
type TUIErrorHandler struct {
	ShowDetails bool
	logger      *zap.Logger
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool, logger *zap.Logger) *TUIErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TUIErrorHandler{ShowDetails: showDetails, logger: logger}
}

// HandleError records the error in the log file and returns it unchanged
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	h.logger.Info("ui error",
		zap.String("code", string(appErr.Code)),
		zap.String("severity", string(appErr.Severity)),
		zap.Any("context", appErr.Context),
		zap.Error(appErr.Cause))
	return appErr
}

// FormatError formats an error for TUI display
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s: %s", message, appErr.Details)
	}
	return message
}

// GetErrorStyle returns an icon and a color for the error severity
func (h *TUIErrorHandler) GetErrorStyle(err error) (string, string) {
	appErr := GetAppError(err)

	switch appErr.Severity {
	case SeverityCritical:
		return "✖", "#ff0000"
	case SeverityError:
		return "✖", "#ff6b6b"
	case SeverityWarning:
		return "!", "#feca57"
	case SeverityInfo:
		return "i", "#48cae4"
	default:
		return "✖", "#ff6b6b"
	}
}
