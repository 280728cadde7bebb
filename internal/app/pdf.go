package app

import (
	"context"
	"fmt"

	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/rendering"
)

// SurfaceOpener loads a rendered page and exposes its preview surface.
type SurfaceOpener interface {
	OpenSurface(ctx context.Context, html, surfaceID string) (export.Surface, func(), error)
}

// PDFOptions describe how the export is requested.
type PDFOptions struct {
	Lang i18n.Lang
	// HidePreview renders the page as it looks while the editor is shown
	// on a narrow screen; the engine forces the surface visible.
	HidePreview bool
}

// PDFExporter renders the current state and runs the export engine on it.
type PDFExporter struct {
	ws     *Workspace
	opener SurfaceOpener
	engine *export.Engine
}

// NewPDFExporter wires an exporter.
func NewPDFExporter(ws *Workspace, opener SurfaceOpener, engine *export.Engine) *PDFExporter {
	return &PDFExporter{ws: ws, opener: opener, engine: engine}
}

// Export produces the PDF for the current state. Only one export runs at a
// time; others get ErrExportInProgress.
func (x *PDFExporter) Export(ctx context.Context, opts PDFOptions, progress export.ProgressFunc) (*export.Result, error) {
	done, err := x.ws.BeginExport()
	if err != nil {
		return nil, err
	}
	defer done()

	data, custom := x.ws.Snapshot()
	html, err := rendering.RenderPage(data, custom, opts.Lang, rendering.PageOptions{
		ResponsiveToggle: true,
		HidePreview:      opts.HidePreview,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	surface, closeSurface, err := x.opener.OpenSurface(ctx, html, rendering.SurfaceID)
	if err != nil {
		return nil, &export.ExportError{Cause: err}
	}
	defer closeSurface()

	return x.engine.ExportWithProgress(ctx, surface, data.PersonalInfo, progress)
}
