package workflow

import "errors"

var (
	// ErrRunNotFound indicates no journal record matches the requested run.
	ErrRunNotFound = errors.New("run not found")
	// ErrEmptyPath indicates a start request without a document path.
	ErrEmptyPath = errors.New("document path must not be empty")
	// ErrMissingResults indicates a fanned-in checkpoint without its results.
	ErrMissingResults = errors.New("checkpoint missing collected results")
)
