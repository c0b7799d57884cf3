package canvas

import (
	"fmt"
	"image"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// RasterizeSVG renders an SVG document onto a new canvas, fit-scaled and
// centered inside target.
func RasterizeSVG(r io.Reader, target image.Rectangle) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse SVG: %w", err)
	}

	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, fmt.Errorf("invalid SVG view box %gx%g", vb.W, vb.H)
	}

	// FitRect works on whole pixels, scale the view box up to keep its aspect.
	src := image.Rect(0, 0, int(vb.W*1024), int(vb.H*1024))
	fit := FitRect(src, target)
	icon.SetTarget(float64(fit.Min.X), float64(fit.Min.Y), float64(fit.Dx()), float64(fit.Dy()))

	rgba := image.NewRGBA(Bounds())
	scanner := rasterx.NewScannerGV(Size, Size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(Size, Size, scanner), 1.0)

	out := New()
	draw.Draw(out, out.Rect, rgba, image.Point{}, draw.Src)
	return out, nil
}
