package teamupdates

import (
	"errors"
	"fmt"
)

// Error taxonomy for the update read/write pipeline. Handlers at the API
// boundary map these to HTTP statuses; nothing here is fatal to the process.
var (
	// ErrUnauthorized is returned when a write is attempted without a
	// valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by SignIn for an unknown email or
	// a wrong password. Callers surface both identically.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned when a requested update does not exist.
	ErrNotFound = errors.New("update not found")

	// ErrStoreUnavailable wraps persistence failures. A failed create
	// leaves the store unchanged; there is no retry.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUploadFailed wraps failures of the image upload pipeline.
	ErrUploadFailed = errors.New("upload failed")
)

// ValidationError reports a malformed create payload, rejected before it
// reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// storeErr tags err as a persistence failure while keeping the cause.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
