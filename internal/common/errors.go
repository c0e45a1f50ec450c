// Package common defines shared constants and errors used across client and
// server layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Reliability layer taxonomy. Each typed error below matches its sentinel
	// through errors.Is.
	ErrStorage     = errors.New("storage error")
	ErrParse       = errors.New("parse error")
	ErrNetwork     = errors.New("network error")
	ErrReplay      = errors.New("replay error")
	ErrUnavailable = errors.New("server unavailable")
)

// StorageError reports a failed read, write or delete against persisted
// key-value storage.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s[%s]: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// ParseError reports a persisted value that could not be decoded.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NetworkError is returned by the HTTP client for transport failures
// (StatusCode == 0) and for non-2xx responses.
type NetworkError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return true
	case ErrorUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrUnavailable:
		return e.StatusCode == 0 || e.StatusCode == http.StatusServiceUnavailable
	}
	return false
}

// IsTransport reports whether the request never produced an HTTP response.
func (e *NetworkError) IsTransport() bool { return e.StatusCode == 0 }

// ReplayError reports a queued request that failed again during replay.
type ReplayError struct {
	ID       string
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay %s %s (id %s, attempt %d): %v", e.Method, e.URL, e.ID, e.Attempts, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }

func (e *ReplayError) Is(target error) bool { return target == ErrReplay }
