package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func uniform(c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = n.R, n.G, n.B, n.A
	}
	return img
}

func requireAlpha(t *testing.T, m *image.NRGBA, want uint8) {
	t.Helper()
	for i := 0; i < len(m.Pix); i += 4 {
		require.Equal(t, [4]uint8{0xff, 0xff, 0xff, want}, [4]uint8(m.Pix[i:i+4]), "pixel %d", i/4)
	}
}

func TestWhiteIsProtected(t *testing.T) {
	m, err := Generate(uniform(color.White))
	require.NoError(t, err)
	requireAlpha(t, m, 0)
}

func TestBlackIsTintable(t *testing.T) {
	m, err := Generate(uniform(color.Black))
	require.NoError(t, err)
	requireAlpha(t, m, 0xff)
}

func TestTransparentIsClipped(t *testing.T) {
	m, err := Generate(uniform(color.NRGBA{R: 10, G: 10, B: 10, A: 0}))
	require.NoError(t, err)
	requireAlpha(t, m, 0)
}

func TestAlphaCarriesThrough(t *testing.T) {
	m, err := Generate(uniform(color.NRGBA{R: 40, G: 80, B: 160, A: 128}))
	require.NoError(t, err)
	requireAlpha(t, m, 128)
}

func TestFeatherIsSmooth(t *testing.T) {
	// 0.97 sits half way between FeatherStart and Cutoff.
	assert.InDelta(t, 0.5, TintAmount(0.97, 0.97, 0.97, 1), 1e-9)
	assert.InDelta(t, 1.0, TintAmount(FeatherStart, FeatherStart, FeatherStart, 1), 1e-9)
	assert.InDelta(t, 0.0, TintAmount(Cutoff, Cutoff, Cutoff, 1), 1e-9)
}

func TestTintAmountMonotonicInLuminance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 1).Draw(t, "a")
		b := rapid.Float64Range(0, 1).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		if TintAmount(a, a, a, 1) < TintAmount(b, b, b, 1) {
			t.Fatalf("darker grey %f less tintable than %f", a, b)
		}
	})
}

func TestGenericImagesAreUnpremultiplied(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		// premultiplied white at half alpha
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 0x80, 0x80, 0x80, 0x80
	}
	m, err := Generate(src)
	require.NoError(t, err)
	requireAlpha(t, m, 0)
}

func TestFallback(t *testing.T) {
	_, err := Generate(image.NewNRGBA(image.Rectangle{}))
	require.ErrorIs(t, err, ErrEmptySource)

	r := image.Rect(0, 0, 8, 8)
	m, err := GenerateOrFull(nil, r)
	require.ErrorIs(t, err, ErrEmptySource)
	require.Equal(t, r, m.Rect)
	requireAlpha(t, m, 0xff)
}
