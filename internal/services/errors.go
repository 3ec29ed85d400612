// Package services provides the business logic layer between handlers and the
// analytics engine. Services validate input, map analytics errors to API codes,
// fan out batches and publish anomaly events.
package services

import (
	"errors"

	"github.com/mfgsight/qualitycast/internal/analytics"
)

// Error codes returned by the service layer
const (
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeLengthMismatch   = "LENGTH_MISMATCH"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidMethod    = "INVALID_METHOD"
	CodeCancelled        = "CANCELLED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// toServiceError maps analytics sentinel errors to service codes.
// A *ServiceError passes through unchanged.
func toServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, analytics.ErrInsufficientData):
		return NewServiceError(CodeInsufficientData, err.Error())
	case errors.Is(err, analytics.ErrLengthMismatch):
		return NewServiceError(CodeLengthMismatch, err.Error())
	case errors.Is(err, analytics.ErrUnknownMethod):
		return NewServiceError(CodeInvalidMethod, err.Error())
	default:
		return NewServiceError(CodeInternal, err.Error())
	}
}
