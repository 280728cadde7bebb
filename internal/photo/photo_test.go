package photo

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURL(t *testing.T, url string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(url, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestProcess_CropsAndScales(t *testing.T) {
	url, err := Process(bytes.NewReader(encodePNG(t, 900, 600)))
	require.NoError(t, err)

	b := decodeDataURL(t, url).Bounds()
	assert.Equal(t, MaxDimension, b.Dx())
	assert.Equal(t, MaxDimension, b.Dy())
}

func TestProcess_SmallImageIsNotUpscaled(t *testing.T) {
	url, err := Process(bytes.NewReader(encodePNG(t, 120, 200)))
	require.NoError(t, err)

	b := decodeDataURL(t, url).Bounds()
	assert.Equal(t, 120, b.Dx())
	assert.Equal(t, 120, b.Dy())
}

func TestProcess_RejectsOtherTypes(t *testing.T) {
	_, err := Process(strings.NewReader("GIF89a not really a gif"))
	assert.ErrorIs(t, err, ErrUnsupportedPhoto)

	_, err = Process(strings.NewReader("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrUnsupportedPhoto)
}

func TestProcess_RejectsLargeUploads(t *testing.T) {
	big := append(encodePNG(t, 4, 4), make([]byte, MaxUploadSize)...)
	_, err := Process(bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}

func TestSquare_TransparentBecomesWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	dst := Square(src, 10)

	r, g, b, _ := dst.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}
