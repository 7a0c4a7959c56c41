// Package apperrors defines the typed errors returned by services and their
// mapping to HTTP responses.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	TypeValidation   ErrorType = "validation"
	TypeConflict     ErrorType = "conflict"
	TypeUnauthorized ErrorType = "unauthorized"
	TypePermission   ErrorType = "permission"
	TypeNotFound     ErrorType = "not_found"
	TypeRateLimit    ErrorType = "rate_limit"
	TypeDatabase     ErrorType = "database"
	TypeExternal     ErrorType = "external"
	TypeUnavailable  ErrorType = "unavailable"
	TypeInternal     ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code, otherwise defers to the
// wrapped error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds a structured field that is logged but never returned to
// clients.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns slog key/value pairs describing the error.
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// HTTPStatus maps the error type to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeConflict:
		return http.StatusConflict
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypePermission:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimit:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeExternal:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// New creates an AppError recording the caller as its source.
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(2),
	}
}

// Wrap wraps err into an AppError recording the caller as its source.
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(2),
	}
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// Handler logs errors at a level matching their type.
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Handle logs err. Client errors are warnings, everything else is an error.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	appErr, ok := As(err)
	if !ok {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case TypeValidation, TypeConflict, TypeNotFound:
		h.logger.InfoContext(ctx, "Request rejected", appErr.LogFields()...)
	case TypeUnauthorized, TypePermission:
		h.logger.WarnContext(ctx, "Access denied", appErr.LogFields()...)
	case TypeRateLimit:
		h.logger.WarnContext(ctx, "Rate limit error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	}
}

// Codes shared across services.
const (
	CodeValidation         = "VALIDATION"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidRange       = "INVALID_RANGE"
	CodeNoCategorySelected = "NO_CATEGORY_SELECTED"
	CodeInvalidCategory    = "INVALID_CATEGORY"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeConflict           = "CONFLICT"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimit          = "RATE_LIMIT"
	CodeDatabase           = "DB_ERROR"
	CodeStorage            = "STORAGE_ERROR"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

func NewValidationError(message string) *AppError {
	return &AppError{Type: TypeValidation, Code: CodeValidation, Message: message, Source: caller(2)}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Type: TypeConflict, Code: code, Message: message, Source: caller(2)}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: TypeUnauthorized, Code: CodeUnauthorized, Message: message, Source: caller(2)}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Type: TypePermission, Code: CodeForbidden, Message: message, Source: caller(2)}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{Type: TypeNotFound, Code: CodeNotFound, Message: what + " not found", Source: caller(2)}
}

func NewRateLimitError() *AppError {
	return &AppError{Type: TypeRateLimit, Code: CodeRateLimit, Message: "Rate limit exceeded", Source: caller(2)}
}

func NewUnavailableError(message string) *AppError {
	return &AppError{Type: TypeUnavailable, Code: CodeUnavailable, Message: message, Source: caller(2)}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{Type: TypeDatabase, Code: CodeDatabase, Message: "Database operation failed", Internal: err, Source: caller(2)}
}

func NewInternalError(err error) *AppError {
	return &AppError{Type: TypeInternal, Code: CodeInternal, Message: "Internal server error", Internal: err, Source: caller(2)}
}
