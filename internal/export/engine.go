// Package export turns the rendered preview into a paginated A4 PDF by
// capturing it as one tall raster and slicing that raster across pages.
package export

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/types"
)

// Defaults for Options.
const (
	DefaultImageTimeout = 5 * time.Second
	DefaultScale        = 2.0
)

// Options configures an Engine.
type Options struct {
	ImageTimeout time.Duration
	Scale        float64
}

// Result is a finished export.
type Result struct {
	Filename string
	PDF      []byte
	Pages    int
}

// Engine runs exports against a Surface.
type Engine struct {
	opts Options
	log  logging.Logger
}

// NewEngine creates an engine, filling zero options with defaults.
func NewEngine(log logging.Logger, opts Options) *Engine {
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = DefaultImageTimeout
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{opts: opts, log: log}
}

// Export captures s and assembles the PDF, named after p.
func (e *Engine) Export(ctx context.Context, s Surface, p types.PersonalInfo) (*Result, error) {
	return e.ExportWithProgress(ctx, s, p, nil)
}

// ExportWithProgress is Export with progress reporting. Changes made to
// the surface are always undone before it returns.
func (e *Engine) ExportWithProgress(ctx context.Context, s Surface, p types.PersonalInfo, progress ProgressFunc) (*Result, error) {
	report := func(pr Progress) {
		if progress != nil {
			progress(pr)
		}
	}

	report(Progress{Percent: 5, Stage: StagePreparing})
	if err := s.Locate(ctx); err != nil {
		return nil, wrap(err)
	}

	restore, err := s.Normalize(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	defer func() {
		if rerr := restore(context.WithoutCancel(ctx)); rerr != nil {
			e.log.Warn(ctx, "failed to restore preview surface", "error", rerr)
		}
	}()

	box, err := s.Measure(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return nil, wrap(ErrSurfaceNotVisible)
	}

	report(Progress{Percent: 15, Stage: StageImages})
	pending, err := s.WaitForImages(ctx, e.opts.ImageTimeout)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, wrap(ctx.Err())
	case err != nil:
		e.log.Warn(ctx, "image wait failed, capturing anyway", "error", err)
	case pending > 0:
		e.log.Warn(ctx, "images still loading after timeout", "pending", pending, "timeout", e.opts.ImageTimeout)
	}

	report(Progress{Percent: 30, Stage: StageCapturing})
	capture, err := s.Capture(ctx, box, e.opts.Scale)
	if err != nil {
		var ce *CaptureError
		if !errors.As(err, &ce) {
			err = &CaptureError{Cause: err}
		}
		return nil, wrap(err)
	}

	report(Progress{Percent: 70, Stage: StageEncoding})
	title := "Lebenslauf"
	if name := p.FullName(); name != "" {
		title += " – " + name
	}
	pdf, pages, err := Assemble(capture, title, func(page, total int) {
		report(pageProgress(page, total))
	})
	if err != nil {
		return nil, wrap(err)
	}

	e.log.Info(ctx, "pdf exported", "pages", pages, "bytes", len(pdf))
	report(Progress{Percent: 100, Stage: StageDone})
	return &Result{Filename: Filename(p), PDF: pdf, Pages: pages}, nil
}
