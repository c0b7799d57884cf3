// Package render chains the folder base, tint and overlay stages and memoizes
// the expensive ones.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"customfolder/canvas"
	"customfolder/folder"
)

// NoFolder stands in for an absent folder in cache keys.
const NoFolder = "none"

type SourceKey struct {
	Texture folder.Texture
	Folder  string
}

func NewSourceKey(tex folder.Texture, path string) SourceKey {
	if path == "" {
		path = NoFolder
	}
	return SourceKey{Texture: tex, Folder: path}
}

func (k SourceKey) String() string {
	return fmt.Sprintf("%s|%s", k.Texture, k.Folder)
}

// ResultKey identifies a tinted base. Floating point parameters are rounded to
// four decimals so slider noise does not defeat the cache.
type ResultKey struct {
	Source    SourceKey
	Intensity float64
	R, G, B   float64
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func NewResultKey(src SourceKey, c color.Color, intensity float64) ResultKey {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ResultKey{
		Source:    src,
		Intensity: round4(canvas.Bound(intensity, 0, 1)),
		R:         round4(float64(n.R) / 0xff),
		G:         round4(float64(n.G) / 0xff),
		B:         round4(float64(n.B) / 0xff),
	}
}

func (k ResultKey) String() string {
	return fmt.Sprintf("%s|%.4f|%.4f|%.4f|%.4f", k.Source, k.Intensity, k.R, k.G, k.B)
}

// Cache holds the last source and result renders. It is not safe for
// concurrent use.
type Cache struct {
	sourceKey *SourceKey
	source    *image.NRGBA
	mask      *image.NRGBA
	resultKey *ResultKey
	result    *image.NRGBA
}

func (c *Cache) Source(k SourceKey) (folder.Base, bool) {
	if c.sourceKey == nil || *c.sourceKey != k || c.source == nil || c.mask == nil {
		return folder.Base{}, false
	}
	return folder.Base{Image: c.source, Mask: c.mask}, true
}

func (c *Cache) PutSource(k SourceKey, b folder.Base) {
	c.sourceKey = &k
	c.source = b.Image
	c.mask = b.Mask
}

func (c *Cache) Result(k ResultKey) (*image.NRGBA, bool) {
	if c.resultKey == nil || *c.resultKey != k || c.result == nil {
		return nil, false
	}
	return c.result, true
}

func (c *Cache) PutResult(k ResultKey, img *image.NRGBA) {
	c.resultKey = &k
	c.result = img
}

// Invalidate drops every slot.
func (c *Cache) Invalidate() {
	c.sourceKey = nil
	c.source = nil
	c.mask = nil
	c.resultKey = nil
	c.result = nil
}
