package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/log"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

// Request-level error codes that have no domain counterpart.
const (
	ErrCodeInvalidRequest errors.ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound       errors.ErrorCode = "NOT_FOUND"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code errors.ErrorCode, message string) APIError {
	return APIError{Code: code, Message: message}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: err}); encErr != nil {
		log.Warnf("Failed to encode error response: %v", encErr)
	}
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteForbidden writes a 403 Forbidden error.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, NewAPIError(errors.ErrCodeAuth, message))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(errors.ErrCodeInternal, message))
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeConflict, errors.ErrCodeNotLoaded:
		return http.StatusConflict
	case errors.ErrCodeAuth:
		return http.StatusUnauthorized
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError writes err using its domain code. Field errors are
// reported under details.fields keyed by path.
func WriteDomainError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	apiErr := NewAPIError(code, err.Error())

	var domainErr *errors.Error
	if stderrors.As(err, &domainErr) {
		apiErr.Message = domainErr.Message
		if domainErr.Cause != nil {
			apiErr = apiErr.WithDetails(map[string]interface{}{"cause": domainErr.Cause.Error()})
		}
	}

	var fe settings.FieldErrors
	if stderrors.As(err, &fe) {
		fields := make(map[string]string, len(fe))
		for _, e := range fe {
			fields[e.Path] = e.Message
		}
		apiErr = apiErr.WithDetails(map[string]interface{}{"fields": fields})
	}

	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}
	WriteError(w, status, apiErr)
}
