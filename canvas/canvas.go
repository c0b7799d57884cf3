// Package canvas holds the raster primitives every compositing stage is built
// on. All images are straight alpha *image.NRGBA and, unless stated otherwise,
// Size x Size pixels.
package canvas

import (
	"image"
	"image/color"
	"math"

	"customfolder/parallel"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const Size = 512

func Bounds() image.Rectangle {
	return image.Rect(0, 0, Size, Size)
}

// New returns a transparent canvas.
func New() *image.NRGBA {
	return image.NewNRGBA(Bounds())
}

func Clone(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

// FitRect returns the largest rectangle with the aspect ratio of src that fits
// in dst, centered. X and Y share the same scale factor.
func FitRect(src, dst image.Rectangle) image.Rectangle {
	srcWidth := float64(max(src.Dx(), 1))
	srcHeight := float64(max(src.Dy(), 1))
	destWidth := float64(dst.Dx())
	destHeight := float64(dst.Dy())

	scale := min(destWidth/srcWidth, destHeight/srcHeight)
	w := max(int(math.Round(srcWidth*scale)), 1)
	h := max(int(math.Round(srcHeight*scale)), 1)

	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Fit normalizes img onto a new canvas: fit-scaled, centered and padded with
// transparency. A nil or empty image yields a blank canvas.
func Fit(img image.Image) *image.NRGBA {
	dest := New()
	if img == nil || img.Bounds().Empty() {
		return dest
	}

	r := FitRect(img.Bounds(), dest.Rect)
	if r.Size() == img.Bounds().Size() {
		draw.Draw(dest, r, img, img.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dest, r, img, img.Bounds(), draw.Src, nil)
	}
	return dest
}

// resampled returns src as an NRGBA image of the given size anchored at the
// origin, reusing src when nothing needs to change.
func resampled(src image.Image, size image.Point) *image.NRGBA {
	sb := src.Bounds()
	if nrgba, ok := src.(*image.NRGBA); ok && sb.Size() == size {
		return nrgba
	}

	dest := image.NewNRGBA(image.Rectangle{Max: size})
	if sb.Size() == size {
		draw.Draw(dest, dest.Rect, src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dest, dest.Rect, src, sb, draw.Src, nil)
	}
	return dest
}

// Composite draws src, scaled into r, onto dst with op at the given opacity.
// Only pixels of dst inside r are touched.
func Composite(dst *image.NRGBA, r image.Rectangle, src image.Image, op Op, opacity float64) {
	if src == nil || r.Empty() {
		return
	}
	opacity = clamp01(opacity)

	s := resampled(src, r.Size())
	clip := r.Intersect(dst.Rect)
	if clip.Empty() {
		return
	}

	parallel.Rows(clip.Dy(), func(minY, maxY int) {
		for y := clip.Min.Y + minY; y < clip.Min.Y+maxY; y++ {
			for x := clip.Min.X; x < clip.Max.X; x++ {
				si := s.PixOffset(s.Rect.Min.X+x-r.Min.X, s.Rect.Min.Y+y-r.Min.Y)
				di := dst.PixOffset(x, y)
				out := op.blend(load(s.Pix[si:si+4]), load(dst.Pix[di:di+4]), opacity)
				store(dst.Pix[di:di+4], out)
			}
		}
	})
}

// Fill applies a uniform color over the whole of dst with op.
func Fill(dst *image.NRGBA, c color.Color, op Op) {
	s := load(nrgba(c))
	b := dst.Rect

	parallel.Rows(b.Dy(), func(minY, maxY int) {
		for y := b.Min.Y + minY; y < b.Min.Y+maxY; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				di := dst.PixOffset(x, y)
				store(dst.Pix[di:di+4], op.blend(s, load(dst.Pix[di:di+4]), 1))
			}
		}
	})
}

// Colorize gives every visible pixel of dst the hue and saturation of c while
// keeping the pixel's luminosity and alpha.
func Colorize(dst *image.NRGBA, c color.Color) {
	col := load(nrgba(c))
	hue := [3]float64{col[0], col[1], col[2]}
	b := dst.Rect

	parallel.Rows(b.Dy(), func(minY, maxY int) {
		for y := b.Min.Y + minY; y < b.Min.Y+maxY; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				di := dst.PixOffset(x, y)
				d := load(dst.Pix[di : di+4])
				if d[3] == 0 {
					continue
				}
				out := setLum(hue, lum([3]float64{d[0], d[1], d[2]}))
				store(dst.Pix[di:di+4], pixel{out[0], out[1], out[2], d[3]})
			}
		}
	})
}

// Shadow returns the silhouette of src painted with c and blurred by radius.
// The result has the bounds of src.
func Shadow(src *image.NRGBA, radius float64, c color.NRGBA) *image.NRGBA {
	sil := image.NewNRGBA(src.Rect)
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x, y)
			a := uint32(src.Pix[i+3]) * uint32(c.A) / 0xff
			copy(sil.Pix[i:i+4], []uint8{c.R, c.G, c.B, uint8(a)})
		}
	}
	if radius <= 0 {
		return sil
	}

	blurred := imaging.Blur(sil, radius/2)
	if blurred.Rect.Min != b.Min {
		out := image.NewNRGBA(b)
		draw.Draw(out, b, blurred, blurred.Rect.Min, draw.Src)
		return out
	}
	return blurred
}

func nrgba(c color.Color) []uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return []uint8{n.R, n.G, n.B, n.A}
}

func load(p []uint8) pixel {
	return pixel{
		float64(p[0]) / 0xff,
		float64(p[1]) / 0xff,
		float64(p[2]) / 0xff,
		float64(p[3]) / 0xff,
	}
}

func store(p []uint8, px pixel) {
	if px[3] <= 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	for i := range px {
		p[i] = uint8(math.Round(clamp01(px[i]) * 0xff))
	}
}

// Bound limits v to [lo, hi]. NaN maps to lo.
func Bound(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(v, hi))
}

func clamp01(v float64) float64 {
	return Bound(v, 0, 1)
}
