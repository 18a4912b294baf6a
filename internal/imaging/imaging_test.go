package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, wantW, wantH int
	}{
		{800, 600, 800, 600},
		{2400, 1200, 1200, 600},
		{1200, 3600, 400, 1200},
		{1200, 1200, 1200, 1200},
		{5000, 1, 1200, 1},
	}
	for _, tc := range cases {
		w, h := FitWithin(tc.w, tc.h, 1200, 1200)
		assert.Equal(t, tc.wantW, w, "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, h, "%dx%d", tc.w, tc.h)
	}
}

func TestNormalizeDownscalesJPEG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, solid(300, 150), nil))

	res, err := Normalize(&src, Options{MaxWidth: 100, MaxHeight: 100, Quality: 85})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", res.Ext)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)

	decoded, format, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, decoded.Bounds().Dx())
}

func TestNormalizeKeepsSmallPNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, solid(40, 30)))

	res, err := Normalize(&src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ".png", res.Ext)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
}

func TestNormalizeConvertsGIFToPNG(t *testing.T) {
	palette := image.NewPaletted(image.Rect(0, 0, 20, 20), color.Palette{color.Black, color.White})
	var src bytes.Buffer
	require.NoError(t, gif.Encode(&src, palette, nil))

	res, err := Normalize(&src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ".png", res.Ext)

	_, format, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize(strings.NewReader("definitely not an image"), DefaultOptions())
	assert.ErrorIs(t, err, ErrUndecodable)
}
