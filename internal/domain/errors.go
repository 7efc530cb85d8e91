package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Pipeline errors
	ErrRateLimited       ErrorCode = "RATE_LIMITED"
	ErrTransport         ErrorCode = "TRANSPORT_ERROR"
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrPersistence       ErrorCode = "PERSISTENCE_ERROR"
)

// DomainError represents a domain-specific error.
// StatusCode carries the HTTP status reported by an upstream API, 0 when there was none.
type DomainError struct {
	Code       ErrorCode `json:"code"`
	StatusCode int       `json:"status,omitempty"`
	Message    string    `json:"message"`
	Err        error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Status  int    `json:"status,omitempty"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Status:  e.StatusCode,
		Message: e.Error(),
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewUpstreamError classifies a failed call to a generation API by its HTTP status.
// 429 is a rate limit; everything else, including statusCode 0 (no response), is a transport failure.
func NewUpstreamError(statusCode int, message string, err error) *DomainError {
	code := ErrTransport
	if statusCode == http.StatusTooManyRequests {
		code = ErrRateLimited
	}
	return &DomainError{Code: code, StatusCode: statusCode, Message: message, Err: err}
}

func NewMalformedResponseError(message string, err error) *DomainError {
	return NewError(ErrMalformedResponse, message, err)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistence, message, err)
}

// CodeOf returns the code of the first DomainError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrInternal
}

// IsRateLimited reports whether err was classified as a rate limit by the transport layer.
func IsRateLimited(err error) bool {
	return err != nil && CodeOf(err) == ErrRateLimited
}
