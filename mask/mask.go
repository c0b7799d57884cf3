// Package mask derives the per-pixel tint coverage of a folder texture.
//
// The mask is white everywhere; its alpha says how much of the tint a source
// pixel takes. Near-white pixels (highlights, glass reflections) are protected
// so they stay white once the folder is tinted.
package mask

import (
	"errors"
	"fmt"
	"image"
	"math"

	"customfolder/parallel"
)

const (
	FeatherStart = 0.96
	Cutoff       = 0.98

	// AlphaEpsilon is the normalized alpha at or below which a pixel is
	// considered fully transparent.
	AlphaEpsilon = 0.001

	// MaxPixels bounds the buffer Generate is willing to allocate.
	MaxPixels = 64 << 20
)

var (
	ErrEmptySource = errors.New("empty source image")
	ErrTooLarge    = errors.New("source image too large")
)

func smoothstep(edge0, edge1, v float64) float64 {
	if edge0 == edge1 {
		if v < edge0 {
			return 0
		}
		return 1
	}
	t := max(0, min((v-edge0)/(edge1-edge0), 1))
	return t * t * (3 - 2*t)
}

// TintAmount returns how tintable a pixel is, in [0, 1], given its normalized
// color and alpha.
func TintAmount(r, g, b, a float64) float64 {
	if a <= AlphaEpsilon {
		return 0
	}
	luminance := 0.2126*r + 0.7152*g + 0.0722*b
	return a * (1 - smoothstep(FeatherStart, Cutoff, luminance))
}

// Generate computes the tint mask of src. The mask has the bounds of src.
func Generate(src image.Image) (*image.NRGBA, error) {
	if src == nil {
		return nil, ErrEmptySource
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptySource
	}
	if n := b.Dx() * b.Dy(); n > MaxPixels || n < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, b.Dx(), b.Dy())
	}

	m := image.NewNRGBA(b)
	at := pixelReader(src)

	parallel.Rows(b.Dy(), func(minY, maxY int) {
		for y := b.Min.Y + minY; y < b.Min.Y+maxY; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				i := m.PixOffset(x, y)
				m.Pix[i], m.Pix[i+1], m.Pix[i+2] = 0xff, 0xff, 0xff

				amount := TintAmount(at(x, y))
				m.Pix[i+3] = uint8(max(0, min(255, math.Round(amount*255))))
			}
		}
	})

	return m, nil
}

// pixelReader returns straight alpha normalized channels for src, reading
// NRGBA buffers directly.
func pixelReader(src image.Image) func(x, y int) (float64, float64, float64, float64) {
	if n, ok := src.(*image.NRGBA); ok {
		return func(x, y int) (float64, float64, float64, float64) {
			i := n.PixOffset(x, y)
			p := n.Pix[i : i+4 : i+4]
			return float64(p[0]) / 0xff, float64(p[1]) / 0xff, float64(p[2]) / 0xff, float64(p[3]) / 0xff
		}
	}

	return func(x, y int) (float64, float64, float64, float64) {
		r, g, b, a := src.At(x, y).RGBA()
		if a == 0 {
			return 0, 0, 0, 0
		}
		// un-premultiply
		fa := float64(a)
		return float64(r) / fa, float64(g) / fa, float64(b) / fa, fa / 0xffff
	}
}

// Full returns a mask that lets the tint through everywhere.
func Full(r image.Rectangle) *image.NRGBA {
	m := image.NewNRGBA(r)
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	return m
}

// GenerateOrFull falls back to a fully tintable mask of the given bounds when
// the source cannot be processed.
func GenerateOrFull(src image.Image, fallback image.Rectangle) (*image.NRGBA, error) {
	m, err := Generate(src)
	if err != nil {
		return Full(fallback), err
	}
	return m, nil
}
