package export

import (
	"context"
	"time"
)

// Box is the full extent of the surface in CSS pixels, relative to the
// document origin.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RestoreFunc undoes the changes made by Surface.Normalize.
type RestoreFunc func(ctx context.Context) error

// Surface is a rendered preview that can be captured as a raster.
type Surface interface {
	// Locate returns ErrSurfaceNotFound when the preview element is missing.
	Locate(ctx context.Context) error
	// Normalize clears transforms on the surface and its ancestors and
	// forces hidden ancestors visible.
	Normalize(ctx context.Context) (RestoreFunc, error)
	// Measure returns the full scrollable extent of the surface.
	Measure(ctx context.Context) (Box, error)
	// WaitForImages waits until every image in the surface has loaded or
	// failed, or until timeout. It returns the number still pending.
	WaitForImages(ctx context.Context, timeout time.Duration) (int, error)
	// Capture renders box as PNG at the given supersampling factor on an
	// opaque white background.
	Capture(ctx context.Context, box Box, scale float64) ([]byte, error)
}
