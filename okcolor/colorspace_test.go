package okcolor

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLabWhiteAndBlack(t *testing.T) {
	white := LabModel.Convert(color.White).(Lab)
	assert.InDelta(t, 1.0, white.L, 1e-4)
	assert.InDelta(t, 0.0, white.A, 1e-4)
	assert.InDelta(t, 0.0, white.B, 1e-4)

	black := LabModel.Convert(color.Black).(Lab)
	assert.InDelta(t, 0.0, black.L, 1e-6)
}

func TestLabRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := color.NRGBA{
			R: rapid.Uint8().Draw(t, "r"),
			G: rapid.Uint8().Draw(t, "g"),
			B: rapid.Uint8().Draw(t, "b"),
			A: 0xff,
		}
		got := color.NRGBAModel.Convert(LabModel.Convert(c)).(color.NRGBA)
		for _, d := range []int{int(got.R) - int(c.R), int(got.G) - int(c.G), int(got.B) - int(c.B)} {
			if d < -1 || d > 1 {
				t.Fatalf("round trip of %v gave %v", c, got)
			}
		}
	})
}

func TestDistance(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	assert.Zero(t, Distance(red, red))
	assert.Greater(t, Distance(red, color.NRGBA{B: 255, A: 255}), Distance(red, color.NRGBA{R: 240, G: 20, A: 255}))
}
