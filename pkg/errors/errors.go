package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeStorage represents storage-related errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotification represents notification delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatcherError represents an application-specific error
type WatcherError struct {
	Type    ErrorType
	Scope   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *WatcherError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Scope, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Scope, e.Message)
}

// Unwrap returns the underlying error
func (e *WatcherError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *WatcherError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeStorage:
		return false
	case ErrorTypeRateLimit:
		return false
	case ErrorTypeParsing:
		return false
	default:
		return false
	}
}

// New creates a new WatcherError
func New(errType ErrorType, scope, message string, err error) *WatcherError {
	return &WatcherError{
		Type:    errType,
		Scope:   scope,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(scope, message string, err error) *WatcherError {
	return New(ErrorTypeNetwork, scope, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(scope, message string, err error) *WatcherError {
	return New(ErrorTypeParsing, scope, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(scope string, duration time.Duration) *WatcherError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, scope, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(scope, message string, err error) *WatcherError {
	return New(ErrorTypeStorage, scope, message, err)
}

// NewNotification creates a new notification error
func NewNotification(scope, message string, err error) *WatcherError {
	return New(ErrorTypeNotification, scope, message, err)
}

// NewValidation creates a new validation error
func NewValidation(scope, message string) *WatcherError {
	return New(ErrorTypeValidation, scope, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatcherError {
	return New(ErrorTypeConfiguration, "", message, err)
}
