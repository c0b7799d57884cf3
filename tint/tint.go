// Package tint colors a folder base through its tint mask.
package tint

import (
	"image"
	"image/color"

	"customfolder/canvas"
)

// Epsilon is the intensity at or below which tinting is skipped.
const Epsilon = 0.001

// Apply tints base with c at the given intensity, limited to where m lets the
// tint through. At zero intensity base itself is returned; otherwise the result
// is a new image and neither input is modified.
func Apply(base, m *image.NRGBA, c color.Color, intensity float64) *image.NRGBA {
	intensity = canvas.Bound(intensity, 0, 1)
	if intensity <= Epsilon {
		return base
	}

	layer := canvas.Clone(base)
	canvas.Colorize(layer, c)
	canvas.Composite(layer, layer.Rect, m, canvas.DestinationIn, 1)

	out := canvas.Clone(base)
	canvas.Composite(out, out.Rect, layer, canvas.SourceOver, intensity)
	return out
}
