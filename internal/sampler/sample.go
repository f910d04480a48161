// Package sampler turns images into per-cell colour fields.
//
// [Sample] only reports success or failure. Substituting [Fallback] when it
// fails is the caller's job; the scene package does that.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrInvalidSize = errors.New("sampler: grid size must be positive")
	ErrEmptyImage  = errors.New("sampler: image has no pixels")
	ErrDecode      = errors.New("sampler: decode failed")
)

type Filter int

const (
	FilterBiLinear Filter = iota
	FilterNearest
)

type Options struct {
	Filter Filter
}

func (o Options) scaler() draw.Scaler {
	if o.Filter == FilterNearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

// Sample loads src and resamples its centred square crop to size×size cells.
func Sample(ctx context.Context, src Source, size int) (ColorField, error) {
	return SampleWith(ctx, src, size, Options{})
}

func SampleWith(ctx context.Context, src Source, size int, opts Options) (ColorField, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", src, ErrDecode, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FromImage(img, size, opts)
}

// FromImage crops the largest centred square out of img and resamples it.
func FromImage(img image.Image, size int, opts Options) (ColorField, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	side := min(b.Dx(), b.Dy())
	sx := b.Min.X + (b.Dx()-side)/2
	sy := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(sx, sy, sx+side, sy+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	opts.scaler().Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)

	out := make(ColorField, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dst.RGBAAt(x, y)
			out[y*size+x] = RGB{
				R: float64(c.R) / 255,
				G: float64(c.G) / 255,
				B: float64(c.B) / 255,
			}
		}
	}
	return out, nil
}
