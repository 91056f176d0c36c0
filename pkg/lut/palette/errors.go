package palette

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for unknown palette names
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing entry and what kind of catalog was searched
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
