// Package overlay places a user image or glyph on top of the tinted folder.
package overlay

import (
	"image"
	"image/color"
	"math"

	"customfolder/canvas"
	"customfolder/tint"
)

const (
	// NominalSize is the overlay edge length at scale 1.
	NominalSize = 230

	centerX = 255
	centerY = canvas.Size - 225
)

var shadowColor = color.NRGBA{A: 0x47} // black at 0.28

// Normalize fits img onto its own canvas.
func Normalize(img image.Image) *image.NRGBA {
	return canvas.Fit(img)
}

// Placement is where the overlay lands on the folder at the given scale.
func Placement(scale float64) image.Rectangle {
	size := NominalSize * scale
	x := int(math.Round(centerX - size/2))
	y := int(math.Round(centerY - size/2))
	s := int(math.Round(size))
	return image.Rect(x, y, x+s, y+s)
}

// Tinted fills the opaque silhouette of img with c at the given intensity.
// img is returned as is when the intensity is negligible.
func Tinted(img *image.NRGBA, c color.NRGBA, intensity float64) *image.NRGBA {
	intensity = canvas.Bound(intensity, 0, 1)
	if intensity <= tint.Epsilon {
		return img
	}

	out := canvas.Clone(img)
	c.A = uint8(math.Round(float64(c.A) * intensity))
	canvas.Fill(out, c, canvas.SourceAtop)
	return out
}

// Compose renders the final icon. A nil overlay returns base unchanged.
func Compose(base *image.NRGBA, img image.Image, mode Mode, p Params) *image.NRGBA {
	if img == nil {
		return base
	}

	normalized := Normalize(img)
	if mode == ReplaceMode {
		return normalized
	}

	p = p.Clamp()
	ov := Tinted(normalized, p.TintColor, p.TintIntensity)

	layer := canvas.New()
	canvas.Composite(layer, Placement(p.Scale), ov, canvas.SourceOver, 1)

	out := canvas.Clone(base)
	if p.Shadow > 0 {
		shadow := canvas.Shadow(layer, p.Shadow, shadowColor)
		dy := int(math.Round(0.45 * p.Shadow))
		canvas.Composite(out, shadow.Rect.Add(image.Pt(0, dy)), shadow, canvas.SourceOver, p.Opacity)
	}
	canvas.Composite(out, layer.Rect, layer, p.Blend.Op(), p.Opacity)

	return out
}
