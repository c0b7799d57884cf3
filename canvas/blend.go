package canvas

import (
	"fmt"
	"math"
)

// Op is a compositing operation. Blend modes follow the W3C Compositing and
// Blending Level 1 formulas and composite with source-over, the Porter-Duff
// ones only change coverage.
type Op uint8

const (
	SourceOver Op = iota
	Multiply
	Screen
	Overlay
	SoftLight
	// Color keeps the luminosity of the backdrop and takes hue and saturation
	// from the source.
	Color
	DestinationIn
	SourceAtop
)

var opNames = [...]string{
	SourceOver:    "source-over",
	Multiply:      "multiply",
	Screen:        "screen",
	Overlay:       "overlay",
	SoftLight:     "soft-light",
	Color:         "color",
	DestinationIn: "destination-in",
	SourceAtop:    "source-atop",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// pixel is a straight alpha color with channels in [0, 1].
type pixel [4]float64

func (o Op) blend(s, d pixel, opacity float64) pixel {
	sa := s[3] * opacity
	da := d[3]

	switch o {
	case DestinationIn:
		return pixel{d[0], d[1], d[2], da * sa}
	case SourceAtop:
		if da == 0 {
			return d
		}
		return pixel{
			s[0]*sa + d[0]*(1-sa),
			s[1]*sa + d[1]*(1-sa),
			s[2]*sa + d[2]*(1-sa),
			da,
		}
	}

	ao := sa + da*(1-sa)
	if ao == 0 {
		return pixel{}
	}

	var b [3]float64
	if o == Color {
		b = setLum([3]float64{s[0], s[1], s[2]}, lum([3]float64{d[0], d[1], d[2]}))
	} else {
		for i := range b {
			b[i] = o.mix(d[i], s[i])
		}
	}

	var out pixel
	for i := range 3 {
		cs := (1-da)*s[i] + da*b[i]
		out[i] = (sa*cs + da*d[i]*(1-sa)) / ao
	}
	out[3] = ao
	return out
}

// mix is the separable blend function B(Cb, Cs).
func (o Op) mix(cb, cs float64) float64 {
	switch o {
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		return hardLight(cs, cb)
	case SoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float64
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = math.Sqrt(cb)
		}
		return cb + (2*cs-1)*(d-cb)
	default:
		return cs
	}
}

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	s := 2*cs - 1
	return cb + s - cb*s
}

func lum(c [3]float64) float64 {
	return 0.3*c[0] + 0.59*c[1] + 0.11*c[2]
}

func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	return clipColor([3]float64{c[0] + d, c[1] + d, c[2] + d})
}

func clipColor(c [3]float64) [3]float64 {
	l := lum(c)
	n := min(c[0], c[1], c[2])
	x := max(c[0], c[1], c[2])
	if n < 0 {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
	}
	if x > 1 {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}
