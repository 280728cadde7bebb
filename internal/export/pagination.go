package export

import "math"

// A4 portrait in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// epsilon absorbs float error so that an image exactly k pages tall does
// not produce an extra blank page.
const epsilon = 1e-6

// Layout describes how one tall raster is placed on consecutive pages.
type Layout struct {
	ImageWidthMM  float64
	ImageHeightMM float64
	// Offsets holds the vertical placement of the image on each page.
	Offsets []float64
}

// Pages returns the number of output pages.
func (l Layout) Pages() int {
	return len(l.Offsets)
}

// ImageHeight scales a pixel size to the given width, keeping aspect ratio.
func ImageHeight(pxWidth, pxHeight int, widthMM float64) float64 {
	if pxWidth <= 0 || pxHeight <= 0 {
		return 0
	}
	return float64(pxHeight) * widthMM / float64(pxWidth)
}

// Paginate slices an image of height imageHeight into windows of
// pageHeight. Page k is drawn with the image shifted by -(k·pageHeight).
// An image no taller than one page yields a single page at offset 0.
func Paginate(imageHeight, pageHeight float64) []float64 {
	return paginate(imageHeight, pageHeight, 0)
}

// paginate is Paginate ignoring a last-page remainder up to slack.
func paginate(imageHeight, pageHeight, slack float64) []float64 {
	n := 1
	if pageHeight > 0 && imageHeight > pageHeight+slack {
		n = int(math.Ceil((imageHeight-slack)/pageHeight - epsilon))
	}
	offsets := make([]float64, n)
	for k := range offsets {
		offsets[k] = -float64(k) * pageHeight
	}
	return offsets
}

// PlanA4 lays out a raster of the given pixel size across A4 pages.
// A remainder shorter than one source pixel does not start a new page:
// CSS pixel rounding leaves a surface sized to one A4 page a fraction of a
// millimetre taller than 297mm.
func PlanA4(pxWidth, pxHeight int) Layout {
	h := ImageHeight(pxWidth, pxHeight, PageWidthMM)
	var pixel float64
	if pxWidth > 0 {
		pixel = PageWidthMM / float64(pxWidth)
	}
	return Layout{
		ImageWidthMM:  PageWidthMM,
		ImageHeightMM: h,
		Offsets:       paginate(h, PageHeightMM, pixel),
	}
}
