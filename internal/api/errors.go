package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials means the backend explicitly rejected the login
	// attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedResponse means the login success/failure envelope could not
	// be parsed. It is kept distinct from ErrInvalidCredentials so callers can
	// decide how to message it, even though the login form presents both the
	// same way.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnauthenticated means no local session credential is present.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrSessionExpired means the backend rejected the presented credential.
	ErrSessionExpired = errors.New("session expired")
)

// FetchError covers any other non-success response or transport failure on
// an authenticated fetch. The wrapped cause is for logs, not for users.
type FetchError struct {
	Op    string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Op, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }
