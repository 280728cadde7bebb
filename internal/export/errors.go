package export

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceNotFound means the preview element does not exist in the page.
	ErrSurfaceNotFound = errors.New("preview surface not found")
	// ErrSurfaceNotVisible means the preview has no rendered size even after
	// hidden ancestors were forced visible.
	ErrSurfaceNotVisible = errors.New("preview surface is not visible")
)

// CaptureError wraps a failure of the underlying raster capture.
type CaptureError struct {
	Cause error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("image capture failed: %v", e.Cause)
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}

// ExportError is the single error type returned by the engine.
type ExportError struct {
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("PDF export failed: %v", e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

func wrap(err error) error {
	var ee *ExportError
	if errors.As(err, &ee) {
		return err
	}
	return &ExportError{Cause: err}
}
