package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnail_KeepsAspectRatio(t *testing.T) {
	p := NewProcessor(80)

	thumb, err := p.Thumbnail(pngBytes(t, 800, 400))
	require.NoError(t, err)

	w, h, err := GetImageDimensions(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, SizeThumbnail.Width, w)
	assert.Equal(t, SizeThumbnail.Width/2, h)
}

func TestThumbnail_DoesNotUpscale(t *testing.T) {
	p := NewProcessor(0)

	thumb, err := p.Thumbnail(pngBytes(t, 40, 20))
	require.NoError(t, err)

	w, h, err := GetImageDimensions(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)
}

func TestThumbnail_RejectsGarbage(t *testing.T) {
	_, err := NewProcessor(85).Thumbnail([]byte("not an image"))
	assert.Error(t, err)
}
