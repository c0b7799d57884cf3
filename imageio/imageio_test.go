package imageio

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{B: 255, A: 128})
	return img
}

func TestFormatFromPath(t *testing.T) {
	for name, want := range map[string]string{
		"a.png":  "png",
		"a.JPG":  "jpeg",
		"a.tif":  "tiff",
		"b.bmp":  "bmp",
		"c.gif":  "gif",
		"d.tiff": "tiff",
	} {
		got, err := FormatFromPath(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := FormatFromPath("x.webp")
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"png", "bmp", "tiff"} {
		dest := filepath.Join(dir, "icon."+format)
		require.NoError(t, Save(sample(), format, dest))

		img, err := Load(dest)
		require.NoError(t, err, format)
		assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(img.At(0, 0)), format)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files left behind")
}

func TestSaveUnsupportedLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	err := Save(sample(), "xcf", filepath.Join(dir, "icon.xcf"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), "png"))

	img, err := DecodeBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = DecodeBytes([]byte("not an image"))
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
