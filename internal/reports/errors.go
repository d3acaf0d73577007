package reports

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no stored report matches the requested ID.
	ErrNotFound = errors.New("result not found")
	// ErrMalformed indicates a stored report entity could not be decoded.
	ErrMalformed = errors.New("stored result malformed")
	// ErrInvalidLimit indicates a non-positive or unparseable list limit.
	ErrInvalidLimit = errors.New("invalid limit")
)

// MapHTTPStatus maps report errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidLimit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
