package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no credential was present or the backend
	// rejected the one we sent.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound means the target does not exist server-side.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the backend reports the item is already present.
	ErrConflict = errors.New("already exists")
)

// APIError is an application-level failure reported by the backend, either
// via a non-2xx status or a success:false envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error: %d", e.Status)
}
