package render

import (
	"image"
	"image/color"
	"log/slog"

	"customfolder/folder"
	"customfolder/overlay"
	"customfolder/tint"
)

// Request carries every input of a preview render.
type Request struct {
	Texture   folder.Texture
	Folder    string
	Tint      color.NRGBA
	Intensity float64

	Overlay image.Image
	Mode    overlay.Mode
	Params  overlay.Params
}

type Stats struct {
	SourceRenders int
	TintRenders   int
}

type Pipeline struct {
	renderer *folder.Renderer
	cache    *Cache
	stats    Stats
}

type Option func(*Pipeline)

// WithoutCache recomputes every stage on each call.
func WithoutCache() Option {
	return func(p *Pipeline) {
		p.cache = nil
	}
}

func NewPipeline(renderer *folder.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		renderer: renderer,
		cache:    &Cache{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Invalidate forgets every cached render.
func (p *Pipeline) Invalidate() {
	if p.cache != nil {
		p.cache.Invalidate()
	}
}

// Base returns the untinted folder base and its mask.
func (p *Pipeline) Base(tex folder.Texture, path string) folder.Base {
	key := NewSourceKey(tex, path)
	if p.cache != nil {
		if b, ok := p.cache.Source(key); ok {
			return b
		}
	}

	slog.Debug("rendering folder base", "key", key)
	b := p.renderer.Render(tex, path)
	p.stats.SourceRenders++

	if p.cache != nil {
		p.cache.PutSource(key, b)
	}
	return b
}

// TintedBase returns the folder base tinted with c. The result may be shared
// with the cache and must not be modified.
func (p *Pipeline) TintedBase(tex folder.Texture, path string, c color.NRGBA, intensity float64) *image.NRGBA {
	b := p.Base(tex, path)

	key := NewResultKey(NewSourceKey(tex, path), c, intensity)
	if p.cache != nil {
		if img, ok := p.cache.Result(key); ok {
			return img
		}
	}

	slog.Debug("tinting folder base", "key", key)
	img := tint.Apply(b.Image, b.Mask, c, key.Intensity)
	p.stats.TintRenders++

	if p.cache != nil {
		p.cache.PutResult(key, img)
	}
	return img
}

// Preview renders the final icon for req. The overlay stage is never cached;
// like TintedBase the result must be treated as read-only.
func (p *Pipeline) Preview(req Request) *image.NRGBA {
	base := p.TintedBase(req.Texture, req.Folder, req.Tint, req.Intensity)
	return overlay.Compose(base, req.Overlay, req.Mode, req.Params)
}
