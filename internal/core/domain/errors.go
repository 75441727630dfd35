package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionNotFound    = errors.New("session not found")
	ErrFlowNotFound       = errors.New("auth flow not found")
	ErrInvalidFlowStep    = errors.New("action not allowed in current step")
	ErrRequestPending     = errors.New("request already pending")
	ErrOTPRejected        = errors.New("invalid verification code")
	ErrNoCart             = errors.New("no cart yet")
	ErrProductNotFound    = errors.New("product not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// BackendError is a non-2xx answer from the storefront backend. Message is the
// backend's own message and is shown to the user verbatim.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// Unauthorized reports whether the backend rejected the bearer token.
func (e *BackendError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// ValidationError carries per-field messages for input rejected before any
// backend request is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ResendNotReadyError is returned while the OTP resend countdown is running.
type ResendNotReadyError struct {
	RetryAfter int
}

func (e *ResendNotReadyError) Error() string {
	return fmt.Sprintf("resend available in %d seconds", e.RetryAfter)
}
