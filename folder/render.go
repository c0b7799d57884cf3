// Package folder renders the untinted folder base and its tint mask.
package folder

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"customfolder/canvas"
	"customfolder/mask"
)

//go:embed assets/*.svg
var assets embed.FS

// IconSource resolves the icon currently shown for a folder.
type IconSource interface {
	Icon(path string) (image.Image, error)
}

// Base is a rasterized folder texture and the mask controlling where it can
// be tinted. Both are canvas sized and must not be modified.
type Base struct {
	Image *image.NRGBA
	Mask  *image.NRGBA
}

var (
	stockMu    sync.Mutex
	stockCache = map[string]*image.NRGBA{}
)

// Stock rasterizes one of the embedded textures. The result is shared, callers
// must not modify it.
func Stock(name string) (*image.NRGBA, error) {
	stockMu.Lock()
	defer stockMu.Unlock()

	if img, ok := stockCache[name]; ok {
		return img, nil
	}

	data, err := assets.ReadFile("assets/" + name + ".svg")
	if err != nil {
		return nil, fmt.Errorf("could not read stock texture %q: %w", name, err)
	}
	img, err := canvas.RasterizeSVG(bytes.NewReader(data), canvas.Bounds())
	if err != nil {
		return nil, fmt.Errorf("could not render stock texture %q: %w", name, err)
	}

	stockCache[name] = img
	return img, nil
}

// GenericIcon is the platform neutral folder icon used when no folder is
// selected and as the reference for a folder without custom icon.
func GenericIcon() *image.NRGBA {
	img, err := Stock("folder_generic")
	if err != nil {
		slog.Error("could not load generic folder icon", "error", err)
		return canvas.New()
	}
	return img
}

type Renderer struct {
	icons IconSource
}

// NewRenderer returns a renderer reading live folder icons from icons. A nil
// source always yields the generic folder icon for Current.
func NewRenderer(icons IconSource) *Renderer {
	return &Renderer{icons: icons}
}

// Raw resolves the unprocessed image for a texture. folder may be empty.
func (r *Renderer) Raw(tex Texture, folder string) image.Image {
	logger := slog.Default().With("texture", tex, "folder", folder)

	var name string
	switch tex {
	case Full:
		name = "folder_full"
	case Empty:
		name = "folder_empty"
	default:
		if folder == "" || r.icons == nil {
			return GenericIcon()
		}
		img, err := r.icons.Icon(folder)
		if err != nil {
			logger.Warn("could not read folder icon, using generic icon", "error", err)
			return GenericIcon()
		}
		return img
	}

	img, err := Stock(name)
	if err != nil {
		logger.Warn("could not load stock texture, using generic icon", "error", err)
		return GenericIcon()
	}
	return img
}

// Render rasterizes the texture onto a canvas and derives its tint mask.
func (r *Renderer) Render(tex Texture, folder string) Base {
	img := canvas.Fit(r.Raw(tex, folder))

	m, err := mask.GenerateOrFull(img, img.Rect)
	if err != nil {
		slog.Warn("could not generate tint mask, tinting everything", "texture", tex, "error", err)
	}

	return Base{Image: img, Mask: m}
}
