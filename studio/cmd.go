package studio

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"customfolder/folder"
	"customfolder/imageio"
	"customfolder/overlay"
	"customfolder/palette"

	"github.com/alecthomas/kong"
)

// Options are the customization flags shared by preview and apply.
type Options struct {
	Folder    string  `help:"Folder to customize" short:"f"`
	Texture   string  `help:"Folder base texture" enum:"full,empty,current" default:"current"`
	Tint      string  `help:"Folder tint, swatch name or hex color" default:"blue"`
	Intensity float64 `help:"Folder tint intensity (0-1)" default:"0.45"`
	Palette   string  `help:"PAL file in RIFF format with extra tint swatches" type:"existingfile"`

	Symbol string `help:"Symbol to draw over the folder" xor:"overlay" group:"overlay"`
	Image  string `help:"Image to draw over the folder" xor:"overlay" type:"existingfile" group:"overlay"`
	Mode   string `help:"Draw the overlay over the folder or replace the folder" enum:"overlay,replace" default:"overlay" group:"overlay"`

	Scale            float64 `help:"Overlay scale (0.6-1.8)" default:"1" group:"overlay"`
	Opacity          float64 `help:"Overlay opacity (0.1-1)" default:"1" group:"overlay"`
	Shadow           float64 `help:"Overlay shadow blur (0-36)" default:"5" group:"overlay"`
	Blend            string  `help:"Overlay blend mode (normal, multiply, screen, overlay, soft-light). Symbols default to overlay, images to normal" group:"overlay"`
	OverlayTint      string  `help:"Overlay tint, swatch name or hex color" group:"overlay"`
	OverlayIntensity float64 `help:"Overlay tint intensity (0-1). Negative keeps the default: 1 for symbols, 0 for images" default:"-1" group:"overlay"`

	texture        folder.Texture    `kong:"-"`
	tint           color.NRGBA       `kong:"-"`
	mode           overlay.Mode      `kong:"-"`
	blend          overlay.BlendMode `kong:"-"`
	hasBlend       bool              `kong:"-"`
	overlayTint    color.NRGBA       `kong:"-"`
	hasOverlayTint bool              `kong:"-"`
}

func inRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("invalid %s %g: should be between %g and %g", name, v, lo, hi)
	}
	return nil
}

func (o *Options) Validate(kctx *kong.Context) error {
	if o.Folder != "" {
		dir, err := filepath.Abs(o.Folder)
		if err != nil {
			return fmt.Errorf("invalid folder path %q: %w", o.Folder, err)
		}
		o.Folder = dir
	}

	var err error
	if o.texture, err = folder.ParseTexture(o.Texture); err != nil {
		return err
	}
	if o.mode, err = overlay.ParseMode(o.Mode); err != nil {
		return err
	}

	swatches := palette.Builtin()
	if o.Palette != "" {
		extra, err := palette.Load(o.Palette)
		if err != nil {
			return err
		}
		swatches = append(swatches, extra...)
	}
	if o.tint, err = swatches.ParseColor(o.Tint); err != nil {
		return fmt.Errorf("invalid tint: %w", err)
	}
	if o.OverlayTint != "" {
		if o.overlayTint, err = swatches.ParseColor(o.OverlayTint); err != nil {
			return fmt.Errorf("invalid overlay tint: %w", err)
		}
		o.hasOverlayTint = true
	}
	if o.Blend != "" {
		if o.blend, err = overlay.ParseBlendMode(o.Blend); err != nil {
			return err
		}
		o.hasBlend = true
	}

	return errors.Join(
		inRange("intensity", o.Intensity, 0, 1),
		inRange("scale", o.Scale, overlay.MinScale, overlay.MaxScale),
		inRange("opacity", o.Opacity, overlay.MinOpacity, overlay.MaxOpacity),
		inRange("shadow", o.Shadow, 0, overlay.MaxShadow),
		inRange("overlay intensity", o.OverlayIntensity, -1, 1),
	)
}

// Load builds a studio in the state described by the flags.
func (o *Options) Load(opts ...Option) (*Studio, error) {
	s := New(opts...)
	if o.Folder != "" {
		s.SelectFolder(o.Folder)
	}

	s.Update(func(snap Snapshot) Snapshot {
		snap.Texture = o.texture
		snap.Tint = o.tint
		snap.Intensity = o.Intensity
		snap.Mode = o.mode
		return snap
	})

	switch {
	case o.Symbol != "":
		if !s.SetSymbol(o.Symbol) {
			return nil, errors.New(s.Snapshot().Status)
		}
	case o.Image != "":
		img, err := imageio.Load(o.Image)
		if err != nil {
			return nil, err
		}
		s.SetImage(img)
	}

	s.Update(func(snap Snapshot) Snapshot {
		snap.Params.Scale = o.Scale
		snap.Params.Opacity = o.Opacity
		snap.Params.Shadow = o.Shadow
		if o.hasBlend {
			snap.Params.Blend = o.blend
		}
		if o.hasOverlayTint {
			snap.Params.TintColor = o.overlayTint
		}
		if o.OverlayIntensity >= 0 {
			snap.Params.TintIntensity = o.OverlayIntensity
		}
		return snap
	})

	return s, nil
}

type PreviewCmd struct {
	Options
	Out    string `help:"Output image" short:"o" default:"folder-icon.png"`
	Format string `help:"Output format (png, bmp, tiff, jpeg, gif), guessed from the output name when empty"`
}

func (c *PreviewCmd) Validate(kctx *kong.Context) error {
	if err := c.Options.Validate(kctx); err != nil {
		return err
	}

	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", c.Out, err)
	}
	c.Out = out

	if c.Format == "" {
		c.Format, err = imageio.FormatFromPath(c.Out)
	} else {
		c.Format, err = imageio.FormatFromPath("." + c.Format)
	}
	return err
}

func (c *PreviewCmd) Run() error {
	s, err := c.Load()
	if err != nil {
		return err
	}

	img := s.Preview()
	if err := imageio.Save(img, c.Format, c.Out); err != nil {
		return err
	}
	slog.Info("preview written", "out", c.Out, "format", c.Format)
	return nil
}

type ApplyCmd struct {
	Options
}

func (c *ApplyCmd) Validate(kctx *kong.Context) error {
	if err := c.Options.Validate(kctx); err != nil {
		return err
	}
	if c.Folder == "" {
		return errors.New("no folder given")
	}
	return nil
}

func (c *ApplyCmd) Run() error {
	s, err := c.Load()
	if err != nil {
		return err
	}

	if !s.Apply() {
		return errors.New(s.Snapshot().Status)
	}
	slog.Info(s.Snapshot().Status, "folder", c.Folder)
	return nil
}

type FolderArg struct {
	Folder string `arg:"" help:"Folder to work on" default:"."`
}

func (f *FolderArg) Validate(kctx *kong.Context) error {
	dir, err := filepath.Abs(f.Folder)
	if err != nil {
		return fmt.Errorf("invalid folder path %q: %w", f.Folder, err)
	}
	f.Folder = dir
	return nil
}

type ResetCmd struct {
	FolderArg
}

func (c *ResetCmd) Run() error {
	s := New()
	s.SelectFolder(c.Folder)

	ok := s.Reset()
	status := s.Snapshot().Status
	if !ok && status != StatusNoReset {
		return errors.New(status)
	}
	slog.Info(status, "folder", c.Folder)
	return nil
}

type RevealCmd struct {
	FolderArg
}

func (c *RevealCmd) Run() error {
	if _, err := os.Stat(c.Folder); err != nil {
		return fmt.Errorf("%w: %w", ErrFolderMissing, err)
	}

	s := New()
	s.SelectFolder(c.Folder)
	if !s.Reveal() {
		return errors.New(s.Snapshot().Status)
	}
	return nil
}
