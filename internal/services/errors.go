package services

import (
	"errors"
	"fmt"
	"time"
)

// FieldError is one failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is malformed or out-of-range input (400)
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %d field(s)", e.Message, len(e.Fields))
}

// NotFoundError is a missing resource (404)
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// RateLimitError means the caller must wait RetryAfter (429)
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "Too many requests. Please try again later."
}

// RetryAfterSeconds is the Retry-After header value
func (e *RateLimitError) RetryAfterSeconds() int {
	secs := int(e.RetryAfter / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// UpstreamError is a third-party failure; callers absorb it instead of surfacing it
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Service + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StoreError is a record store failure (500). Message is safe to show, Err is logged only.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// ErrInvalidCredentials admin login failure
var ErrInvalidCredentials = errors.New("invalid email or password")
