package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIP is returned when a camera save would create a second
	// camera with the same normalized IP.
	ErrDuplicateIP = errors.New("a camera with this IP already exists")

	// ErrDuplicateName is returned when a taxonomy entry with the same
	// case-insensitive name already exists within the kind.
	ErrDuplicateName = errors.New("an entry with this name already exists")

	ErrEmptyName   = errors.New("name must not be blank")
	ErrUnknownKind = errors.New("unknown taxonomy kind")
	ErrNotFound    = errors.New("not found")
)

// InUseError reports how many devices still reference a taxonomy entry
// that was asked to be removed.
type InUseError struct {
	Name      string
	Cameras   int64
	Recorders int64
}

func (e *InUseError) Error() string {
	if e.Recorders > 0 {
		return fmt.Sprintf("%q is still used by %d camera(s) and %d recorder(s)", e.Name, e.Cameras, e.Recorders)
	}
	return fmt.Sprintf("%q is still used by %d camera(s)", e.Name, e.Cameras)
}
