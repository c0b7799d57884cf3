// Package palette holds the named tint swatches and reads and writes them as
// RIFF PAL files.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"customfolder/okcolor"

	"github.com/lucasb-eyer/go-colorful"
)

type Swatch struct {
	Name  string
	Color color.NRGBA
}

type Palette []Swatch

var (
	// FolderTint is the default folder tint.
	FolderTint = color.NRGBA{R: 79, G: 148, B: 245, A: 0xff}
	// OverlayTint is the default overlay tint.
	OverlayTint = color.NRGBA{R: 64, G: 64, B: 64, A: 0xff}
)

// Builtin returns the swatches available without a palette file.
func Builtin() Palette {
	return Palette{
		{"blue", FolderTint},
		{"graphite", OverlayTint},
		{"red", color.NRGBA{R: 235, G: 77, B: 61, A: 0xff}},
		{"orange", color.NRGBA{R: 242, G: 153, B: 54, A: 0xff}},
		{"yellow", color.NRGBA{R: 247, G: 206, B: 70, A: 0xff}},
		{"green", color.NRGBA{R: 101, G: 196, B: 102, A: 0xff}},
		{"mint", color.NRGBA{R: 102, G: 212, B: 207, A: 0xff}},
		{"teal", color.NRGBA{R: 89, G: 173, B: 196, A: 0xff}},
		{"indigo", color.NRGBA{R: 93, G: 92, B: 222, A: 0xff}},
		{"purple", color.NRGBA{R: 175, G: 82, B: 222, A: 0xff}},
		{"pink", color.NRGBA{R: 235, G: 68, B: 90, A: 0xff}},
		{"brown", color.NRGBA{R: 162, G: 132, B: 94, A: 0xff}},
		{"black", color.NRGBA{A: 0xff}},
		{"white", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	}
}

// Find looks a swatch up by name, ignoring case.
func (p Palette) Find(name string) (Swatch, bool) {
	for _, s := range p {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Swatch{}, false
}

// Nearest returns the swatch perceptually closest to c.
func (p Palette) Nearest(c color.Color) (Swatch, bool) {
	if len(p) == 0 {
		return Swatch{}, false
	}

	target := okcolor.LabModel.Convert(c).(okcolor.Lab)
	best, bestDist := 0, math.MaxFloat64
	for i, s := range p {
		d := target.Distance(okcolor.LabModel.Convert(s.Color).(okcolor.Lab))
		if d < bestDist {
			if d == 0 {
				return s, true
			}
			best, bestDist = i, d
		}
	}
	return p[best], true
}

// ParseColor accepts a swatch name from p or a hex color (#RGB or #RRGGBB).
func (p Palette) ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if sw, ok := p.Find(s); ok {
		return sw.Color, nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should be a swatch name, #RGB or #RRGGBB: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats c as #RRGGBB.
func Hex(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 0xff, G: float64(c.G) / 0xff, B: float64(c.B) / 0xff}.Hex()
}

// Load reads a RIFF PAL file. Swatches are named after their hex value.
func Load(name string) (Palette, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}

	var p Palette
	for _, pal := range pals {
		for _, col := range pal {
			c := color.NRGBAModel.Convert(col).(color.NRGBA)
			c.A = 0xff
			p = append(p, Swatch{Name: Hex(c), Color: c})
		}
	}
	return p, nil
}

// Save writes the swatch colors as a single RIFF PAL palette.
func (p Palette) Save(name string) error {
	pal := make(color.Palette, len(p))
	for i, s := range p {
		pal[i] = s.Color
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create palette %q: %w", name, err)
	}
	if _, err := WriteTo(f, []color.Palette{pal}); err != nil {
		f.Close()
		return fmt.Errorf("could not save palette %q: %w", name, err)
	}
	return f.Close()
}
