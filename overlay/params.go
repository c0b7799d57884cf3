package overlay

import (
	"fmt"
	"image/color"
	"strings"

	"customfolder/canvas"
)

// Mode chooses whether the overlay is drawn on the folder or replaces it.
type Mode uint8

const (
	OverlayMode Mode = iota
	ReplaceMode
)

func (m Mode) String() string {
	switch m {
	case OverlayMode:
		return "overlay"
	case ReplaceMode:
		return "replace"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "overlay":
		return OverlayMode, nil
	case "replace":
		return ReplaceMode, nil
	}
	return 0, fmt.Errorf("unknown composition mode %q", s)
}

type BlendMode uint8

const (
	Normal BlendMode = iota
	Multiply
	Screen
	Overlay
	SoftLight
)

var blendNames = [...]string{
	Normal:    "normal",
	Multiply:  "multiply",
	Screen:    "screen",
	Overlay:   "overlay",
	SoftLight: "soft-light",
}

func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return fmt.Sprintf("blend(%d)", uint8(b))
}

func ParseBlendMode(s string) (BlendMode, error) {
	for i, name := range blendNames {
		if strings.EqualFold(s, name) {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown blend mode %q", s)
}

// Op is the canvas operation drawing the overlay.
func (b BlendMode) Op() canvas.Op {
	switch b {
	case Multiply:
		return canvas.Multiply
	case Screen:
		return canvas.Screen
	case Overlay:
		return canvas.Overlay
	case SoftLight:
		return canvas.SoftLight
	default:
		return canvas.SourceOver
	}
}

const (
	MinScale   = 0.6
	MaxScale   = 1.8
	MinOpacity = 0.1
	MaxOpacity = 1.0
	MaxShadow  = 36
)

// Params are read on every preview render and never cached.
type Params struct {
	Scale         float64
	Opacity       float64
	Shadow        float64
	Blend         BlendMode
	TintColor     color.NRGBA
	TintIntensity float64
}

func DefaultParams() Params {
	return Params{
		Scale:         1,
		Opacity:       1,
		Shadow:        5,
		Blend:         Overlay,
		TintColor:     color.NRGBA{R: 64, G: 64, B: 64, A: 0xff},
		TintIntensity: 1,
	}
}

// Clamp brings every parameter back within its bounds.
func (p Params) Clamp() Params {
	p.Scale = canvas.Bound(p.Scale, MinScale, MaxScale)
	p.Opacity = canvas.Bound(p.Opacity, MinOpacity, MaxOpacity)
	p.Shadow = canvas.Bound(p.Shadow, 0, MaxShadow)
	p.TintIntensity = canvas.Bound(p.TintIntensity, 0, 1)
	if int(p.Blend) >= len(blendNames) {
		p.Blend = Normal
	}
	return p
}
