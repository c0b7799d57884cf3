package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customfolder/canvas"
	"customfolder/folder"
	"customfolder/overlay"
)

type stubIcons struct {
	calls int
}

func (s *stubIcons) Icon(string) (image.Image, error) {
	s.calls++
	img, err := folder.Stock("folder_empty")
	return img, err
}

var blue = color.NRGBA{R: 79, G: 148, B: 245, A: 255}

func TestSourceTierHit(t *testing.T) {
	p := NewPipeline(folder.NewRenderer(nil))

	a := p.Base(folder.Full, "")
	b := p.Base(folder.Full, "")
	assert.Same(t, a.Image, b.Image)
	assert.Same(t, a.Mask, b.Mask)
	assert.Equal(t, 1, p.Stats().SourceRenders)
}

func TestResultTierHit(t *testing.T) {
	p := NewPipeline(folder.NewRenderer(nil))

	a := p.TintedBase(folder.Full, "", blue, 0.45)
	b := p.TintedBase(folder.Full, "", blue, 0.45)
	assert.Same(t, a, b)
	assert.Equal(t, Stats{SourceRenders: 1, TintRenders: 1}, p.Stats())

	// below the rounding precision
	c := p.TintedBase(folder.Full, "", blue, 0.450001)
	assert.Same(t, a, c)
	assert.Equal(t, 1, p.Stats().TintRenders)
}

func TestKeyChangeRecomputes(t *testing.T) {
	icons := &stubIcons{}
	p := NewPipeline(folder.NewRenderer(icons))

	p.TintedBase(folder.Current, "/a", blue, 0.45)
	p.TintedBase(folder.Current, "/b", blue, 0.45)
	assert.Equal(t, Stats{SourceRenders: 2, TintRenders: 2}, p.Stats())
	assert.Equal(t, 2, icons.calls)

	// only the tint changed: the source tier still hits
	p.TintedBase(folder.Current, "/b", blue, 0.5)
	assert.Equal(t, Stats{SourceRenders: 2, TintRenders: 3}, p.Stats())

	p.TintedBase(folder.Current, "/b", color.NRGBA{R: 255, A: 255}, 0.5)
	assert.Equal(t, Stats{SourceRenders: 2, TintRenders: 4}, p.Stats())

	p.TintedBase(folder.Empty, "/b", color.NRGBA{R: 255, A: 255}, 0.5)
	assert.Equal(t, Stats{SourceRenders: 3, TintRenders: 5}, p.Stats())
}

func TestInvalidate(t *testing.T) {
	p := NewPipeline(folder.NewRenderer(nil))

	a := p.TintedBase(folder.Full, "", blue, 0.45)
	p.Invalidate()
	b := p.TintedBase(folder.Full, "", blue, 0.45)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, Stats{SourceRenders: 2, TintRenders: 2}, p.Stats())
}

func TestCacheDoesNotChangeOutput(t *testing.T) {
	cached := NewPipeline(folder.NewRenderer(nil))
	uncached := NewPipeline(folder.NewRenderer(nil), WithoutCache())

	ov := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(ov.Pix); i += 4 {
		copy(ov.Pix[i:], []uint8{250, 250, 250, 255})
	}

	reqs := []Request{
		{Texture: folder.Full, Tint: blue, Intensity: 0.45},
		{Texture: folder.Empty, Tint: blue, Intensity: 1},
		{Texture: folder.Empty, Tint: blue, Intensity: 0},
		{Texture: folder.Full, Tint: blue, Intensity: 0.45, Overlay: ov, Params: overlay.DefaultParams()},
		{Texture: folder.Full, Tint: blue, Intensity: 0.45, Overlay: ov, Mode: overlay.ReplaceMode},
		{Texture: folder.Full, Tint: blue, Intensity: 0.45},
	}
	for i, req := range reqs {
		want := uncached.Preview(req)
		got := cached.Preview(req)
		require.Equal(t, canvas.Bounds(), got.Rect, "request %d", i)
		require.Equal(t, want.Pix, got.Pix, "request %d", i)
	}

	assert.Equal(t, Stats{SourceRenders: len(reqs), TintRenders: len(reqs)}, uncached.Stats())
	assert.Less(t, cached.Stats().SourceRenders, len(reqs))
}

func TestKeys(t *testing.T) {
	src := NewSourceKey(folder.Current, "")
	assert.Equal(t, "current|none", src.String())

	k := NewResultKey(src, color.NRGBA{R: 255, A: 255}, 0.123456)
	assert.Equal(t, "current|none|0.1235|1.0000|0.0000|0.0000", k.String())
	assert.NotEqual(t, k, NewResultKey(NewSourceKey(folder.Current, "/x"), color.NRGBA{R: 255, A: 255}, 0.123456))
}

func TestNaNIntensityKey(t *testing.T) {
	src := NewSourceKey(folder.Full, "")
	k := NewResultKey(src, blue, math.NaN())
	assert.Equal(t, k, NewResultKey(src, blue, math.NaN()))
	assert.Equal(t, NewResultKey(src, blue, 0), k)
}
