// Package domain holds the error taxonomy shared by every store and handler.
package domain

import (
	"errors"
	"net/http"

	"github.com/example/shindora/internal/platform/api"
)

// Sentinel errors. Stores return these (optionally wrapped); handlers map
// them onto HTTP status codes with WriteHTTP.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// WriteHTTP writes err to w using the shared error envelope. Unrecognized
// errors become an opaque 500; validation errors carry their message verbatim
// so clients can render it.
func WriteHTTP(w http.ResponseWriter, requestID string, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		api.BadRequest(w, "INVALID_ARGUMENT", err.Error(), requestID, nil)
	case errors.Is(err, ErrUnauthenticated):
		api.Unauthorized(w, "UNAUTHENTICATED", err.Error(), requestID)
	case errors.Is(err, ErrForbidden):
		api.Forbidden(w, "FORBIDDEN", err.Error(), requestID)
	case errors.Is(err, ErrNotFound):
		api.NotFound(w, "NOT_FOUND", err.Error(), requestID)
	case errors.Is(err, ErrConflict):
		api.Conflict(w, "CONFLICT", err.Error(), requestID, nil)
	default:
		api.Internal(w, requestID)
	}
}
