package tint

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"customfolder/canvas"
	"customfolder/folder"
	"customfolder/mask"
)

func drawImage(t *rapid.T, label string) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	pix := rapid.SliceOfN(rapid.Uint8(), len(img.Pix), len(img.Pix)).Draw(t, label)
	copy(img.Pix, pix)
	return img
}

func TestZeroIntensityIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := drawImage(t, "base")
		m := drawImage(t, "mask")
		want := append([]uint8(nil), base.Pix...)

		intensity := rapid.Float64Range(-1, Epsilon).Draw(t, "intensity")
		out := Apply(base, m, color.NRGBA{R: 255, A: 255}, intensity)
		if out != base {
			t.Fatalf("expected base to be returned unchanged")
		}
		if string(out.Pix) != string(want) {
			t.Fatalf("base was modified")
		}
	})
}

func TestApplyDoesNotModifyInputs(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(base.Pix); i += 4 {
		copy(base.Pix[i:], []uint8{60, 120, 200, 255})
	}
	m := mask.Full(base.Rect)
	before := append([]uint8(nil), base.Pix...)

	out := Apply(base, m, color.NRGBA{R: 255, A: 255}, 1)
	assert.NotSame(t, base, out)
	assert.Equal(t, before, base.Pix)
	assert.Equal(t, mask.Full(base.Rect).Pix, m.Pix)
}

func TestProtectedPixelsKeepTheirColor(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	base.SetNRGBA(0, 0, color.NRGBA{R: 60, G: 120, B: 200, A: 255})
	base.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	m, err := mask.Generate(base)
	require.NoError(t, err)

	out := Apply(base, m, color.NRGBA{R: 255, A: 255}, 1)
	body := out.NRGBAAt(0, 0)
	assert.Greater(t, body.R, body.B, "body should turn red")
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(1, 0))
}

func TestRedTintOnFullTexture(t *testing.T) {
	base := folder.NewRenderer(nil).Render(folder.Full, "")
	out := Apply(base.Image, base.Mask, color.NRGBA{R: 255, A: 255}, 1)

	// folder body was blue, must now be dominated by red
	before := base.Image.NRGBAAt(256, 350)
	require.Greater(t, before.B, before.R)
	after := out.NRGBAAt(256, 350)
	assert.Greater(t, after.R, after.G)
	assert.Greater(t, after.R, after.B)
	assert.Equal(t, before.A, after.A)

	// paper highlight stays white
	paper := out.NRGBAAt(256, 160)
	assert.GreaterOrEqual(t, paper.R, uint8(250))
	assert.GreaterOrEqual(t, paper.G, uint8(250))
	assert.GreaterOrEqual(t, paper.B, uint8(250))
}

func TestIntensityBlends(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	base.SetNRGBA(0, 0, color.NRGBA{R: 60, G: 120, B: 200, A: 255})
	m := mask.Full(base.Rect)
	red := color.NRGBA{R: 255, A: 255}

	half := Apply(base, m, red, 0.5).NRGBAAt(0, 0)
	full := Apply(base, m, red, 1).NRGBAAt(0, 0)
	assert.Less(t, half.R, full.R)
	assert.Greater(t, half.R, uint8(60))
	assert.Greater(t, half.B, full.B)
}

func TestFullIntensityIsMaskedColorize(t *testing.T) {
	base := folder.NewRenderer(nil).Render(folder.Full, "")
	red := color.NRGBA{R: 255, A: 255}

	want := canvas.Clone(base.Image)
	canvas.Colorize(want, red)
	canvas.Composite(want, want.Rect, base.Mask, canvas.DestinationIn, 1)

	out := Apply(base.Image, base.Mask, red, 1)
	var checked int
	for y := 0; y < canvas.Size; y++ {
		for x := 0; x < canvas.Size; x++ {
			if base.Mask.NRGBAAt(x, y).A != 0xff || base.Image.NRGBAAt(x, y).A != 0xff {
				continue
			}
			checked++
			require.Equal(t, want.NRGBAAt(x, y), out.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.Greater(t, checked, canvas.Size*canvas.Size/10)
}

func TestNaNIntensityLeavesBase(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, base, Apply(base, mask.Full(base.Rect), color.NRGBA{R: 255, A: 255}, math.NaN()))
}
