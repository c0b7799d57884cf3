package okcolor

import (
	"image/color"
	"math"
)

type LinearRGBA struct {
	R float64
	G float64
	B float64
	A uint16
}

var LinearRGBAModel = color.ModelFunc(linearRGBAConvert)

func linearRGBAConvert(c color.Color) color.Color {
	if _, ok := c.(LinearRGBA); ok {
		return c
	}

	return sRGBToLinearRGB(color.NRGBA64Model.Convert(c).(color.NRGBA64))
}

// RGBA clamps out of gamut channels before going back to sRGB.
func (lc LinearRGBA) RGBA() (uint32, uint32, uint32, uint32) {
	return color.NRGBA64{
		R: uint16(math.Round(fromLinear(clamp(lc.R, 0, 1)) * 65535)),
		G: uint16(math.Round(fromLinear(clamp(lc.G, 0, 1)) * 65535)),
		B: uint16(math.Round(fromLinear(clamp(lc.B, 0, 1)) * 65535)),
		A: lc.A,
	}.RGBA()
}

func sRGBToLinearRGB(c color.NRGBA64) LinearRGBA {
	return LinearRGBA{
		R: toLinear(float64(c.R) / 65535),
		G: toLinear(float64(c.G) / 65535),
		B: toLinear(float64(c.B) / 65535),
		A: c.A,
	}
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	} else {
		return x / 12.92
	}
}

const pow float64 = 1.0 / 2.4

func fromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	} else {
		return x * 12.92
	}
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	} else if x > max {
		return max
	} else {
		return x
	}
}
