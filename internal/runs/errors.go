package runs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/examiner/internal/workflow"
)

var (
	// ErrMalformed indicates a stored run entity could not be decoded.
	ErrMalformed = errors.New("stored run malformed")
	// ErrInvalidLimit indicates a non-positive or unparseable list limit.
	ErrInvalidLimit = errors.New("invalid limit")
)

// MapHTTPStatus maps run errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, workflow.ErrRunNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidLimit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
