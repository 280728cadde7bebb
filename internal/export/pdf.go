package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

const surfaceImage = "surface"

// Assemble places a PNG capture on as many A4 pages as its height needs,
// shifting the same image up by one page height per page. onPage, if set,
// is called after each page is laid out.
func Assemble(capture []byte, title string, onPage func(page, pages int)) ([]byte, int, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(capture))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read capture: %w", err)
	}
	layout := PlanA4(cfg.Width, cfg.Height)
	if layout.ImageHeightMM == 0 {
		return nil, 0, fmt.Errorf("capture is empty (%dx%d)", cfg.Width, cfg.Height)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("lebenslauf", true)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(surfaceImage, opts, bytes.NewReader(capture))
	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to register capture: %w", err)
	}

	pages := layout.Pages()
	for i, offset := range layout.Offsets {
		pdf.AddPage()
		pdf.ImageOptions(surfaceImage, 0, offset, layout.ImageWidthMM, layout.ImageHeightMM, false, opts, 0, "")
		if onPage != nil {
			onPage(i+1, pages)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to encode PDF: %w", err)
	}
	return buf.Bytes(), pages, nil
}
