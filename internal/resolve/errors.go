// internal/resolve/errors.go
package resolve

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel for a resolution that exhausted every
// candidate. Callers must treat it as a recoverable condition, not a fatal
// one.
var ErrNotFound = errors.New("element not found")

// NotFoundError carries the identifier that failed to resolve.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found for target %q", e.Target)
}

// Is makes errors.Is(err, ErrNotFound) succeed for NotFoundError values.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
