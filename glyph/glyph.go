// Package glyph turns named symbols into overlay rasters.
//
// Names resolve against an embedded catalog of vector symbols first. A name
// made of a single character is drawn with the Go Regular font when the font
// has a glyph for it.
package glyph

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"customfolder/canvas"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const (
	// PointSize is the nominal size glyphs are drawn at before fitting.
	PointSize = 340
	// TargetSize is the edge of the centered box a glyph is fit into.
	TargetSize = 320
)

var ErrUnknownSymbol = errors.New("unknown symbol")

//go:embed symbols/*.svg
var symbols embed.FS

// Target is the region of the canvas glyphs are fit into.
func Target() image.Rectangle {
	off := (canvas.Size - TargetSize) / 2
	return image.Rect(off, off, off+TargetSize, off+TargetSize)
}

// Names lists the catalog, sorted.
func Names() []string {
	entries, err := fs.ReadDir(symbols, "symbols")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Has reports whether name resolves to a catalog symbol.
func Has(name string) bool {
	_, err := fs.Stat(symbols, symbolPath(name))
	return err == nil
}

func symbolPath(name string) string {
	return "symbols/" + name + ".svg"
}

// Rasterize renders name on a transparent canvas.
func Rasterize(name string) (*image.NRGBA, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}

	if data, err := symbols.ReadFile(symbolPath(name)); err == nil {
		img, err := canvas.RasterizeSVG(bytes.NewReader(data), Target())
		if err != nil {
			return nil, fmt.Errorf("could not render symbol %q: %w", name, err)
		}
		return img, nil
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return rasterizeRune(r)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
}

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

func rasterizeRune(r rune) (*image.NRGBA, error) {
	if !unicode.IsGraphic(r) || unicode.IsSpace(r) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, r)
	}

	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("could not load font: %w", err)
	}

	var buf sfnt.Buffer
	if idx, err := f.GlyphIndex(&buf, r); err != nil || idx == 0 {
		return nil, fmt.Errorf("%w: no glyph for %q", ErrUnknownSymbol, r)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: PointSize, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("could not create font face: %w", err)
	}
	defer face.Close()

	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		return nil, fmt.Errorf("%w: no glyph bounds for %q", ErrUnknownSymbol, r)
	}
	glyphRect := image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
	if glyphRect.Empty() {
		return nil, fmt.Errorf("%w: empty glyph %q", ErrUnknownSymbol, r)
	}

	src := image.NewRGBA(image.Rectangle{Max: glyphRect.Size()})
	d := &font.Drawer{
		Dst:  src,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(-glyphRect.Min.X, -glyphRect.Min.Y),
	}
	d.DrawString(string(r))

	out := canvas.New()
	canvas.Composite(out, canvas.FitRect(src.Rect, Target()), src, canvas.SourceOver, 1)
	return out, nil
}
