// Package imaging normalises uploaded pictures: bounded dimensions, no upscaling, re-encoded output.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUndecodable = errors.New("cannot decode image")

type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

func DefaultOptions() Options {
	return Options{MaxWidth: 1200, MaxHeight: 1200, Quality: 85}
}

// Result is the encoded image plus the file extension matching its encoding.
type Result struct {
	Data   []byte
	Ext    string
	Width  int
	Height int
}

// Normalize decodes src, fits it inside the bounding box and re-encodes it.
// PNG and GIF become PNG; every other format becomes JPEG at the configured quality.
func Normalize(src io.Reader, opts Options) (Result, error) {
	if opts.MaxWidth <= 0 || opts.MaxHeight <= 0 {
		opts = DefaultOptions()
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}

	img, format, err := image.Decode(src)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return Result{}, fmt.Errorf("%w: empty dimensions", ErrUndecodable)
	}

	width, height := FitWithin(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)
	out := img
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	switch format {
	case "png", "gif":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, out); err != nil {
			return Result{}, fmt.Errorf("encode png: %w", err)
		}
		return Result{Data: buf.Bytes(), Ext: ".png", Width: width, Height: height}, nil
	default:
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: opts.Quality}); err != nil {
			return Result{}, fmt.Errorf("encode jpeg: %w", err)
		}
		return Result{Data: buf.Bytes(), Ext: ".jpg", Width: width, Height: height}, nil
	}
}

// FitWithin scales (w, h) down to fit inside (maxW, maxH) keeping the aspect ratio. It never enlarges.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	newW := int(math.Round(float64(w) * ratio))
	newH := int(math.Round(float64(h) * ratio))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}
