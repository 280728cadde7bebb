// Package photo prepares an uploaded portrait for embedding in the résumé:
// it checks type and size, crops to a centered square, scales down and
// re-encodes as a JPEG data URL.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register decoder
	"io"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadSize is the largest accepted upload in bytes.
	MaxUploadSize = 5 << 20
	// MaxDimension is the edge length of the stored square.
	MaxDimension = 400
	// maxPixels guards against decompression bombs.
	maxPixels   = 50_000_000
	jpegQuality = 85
)

var (
	// ErrPhotoTooLarge is returned when the upload exceeds MaxUploadSize.
	ErrPhotoTooLarge = errors.New("photo exceeds 5 MB")
	// ErrUnsupportedPhoto is returned for anything but a decodable JPEG or
	// PNG within the pixel limit.
	ErrUnsupportedPhoto = errors.New("photo must be a JPEG or PNG image")
)

// Process reads an upload and returns the processed photo as a data URL.
func Process(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if len(raw) > MaxUploadSize {
		return "", ErrPhotoTooLarge
	}

	mt := mimetype.Detect(raw)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return "", fmt.Errorf("%w: got %s", ErrUnsupportedPhoto, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedPhoto, err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return "", fmt.Errorf("%w: %dx%d is too many pixels", ErrUnsupportedPhoto, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedPhoto, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Square(src, MaxDimension), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Square crops the centered square of src and scales it so that its edge
// is at most size. Transparent pixels become white.
func Square(src image.Image, size int) *image.RGBA {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	edge := min(side, size)
	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}
