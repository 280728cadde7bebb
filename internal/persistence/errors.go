// Package persistence implements the résumé persistence adapter: autosave to
// durable local storage, a session-scoped backup, and JSON file
// export/import.
package persistence

import (
	"errors"
	"fmt"
)

// ErrStorageFull is returned by Save when the local store is out of space.
var ErrStorageFull = errors.New("local storage is full")

// ImportError reports a malformed or incomplete import file.
type ImportError struct {
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("import failed: %s", e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}
