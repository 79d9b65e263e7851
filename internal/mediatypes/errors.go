package mediatypes

import (
	"errors"
	"fmt"
)

// Error kinds returned by the loader. Wrap with fmt.Errorf("...: %w") or
// PathError and test with errors.Is.
var (
	// ErrNotFound means path resolution exhausted every candidate location.
	ErrNotFound = errors.New("media not found")
	// ErrDecode means a decoder could not open or parse its input, or produced no frames.
	ErrDecode = errors.New("decode failed")
	// ErrEmptyResult means a multi-file load had candidates but none decoded.
	ErrEmptyResult = errors.New("no decodable media")
	// ErrValidation means the request or its input was malformed.
	ErrValidation = errors.New("invalid media request")
)

// PathError records the operation, path and error kind of a failure.
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// NewPathError builds a PathError of the given kind.
func NewPathError(kind error, op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the error kind and the underlying cause.
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
