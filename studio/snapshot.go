// Package studio holds the customization state and the operations a front
// end drives. State changes go through Update, which publishes an immutable
// Snapshot to every subscriber.
package studio

import (
	"image"
	"image/color"
	"slices"

	"customfolder/folder"
	"customfolder/glyph"
	"customfolder/overlay"
	"customfolder/palette"
	"customfolder/render"
)

const (
	DefaultIntensity = 0.45

	StatusReady      = "Drop an image or symbol"
	StatusNoFolder   = "Select a folder first"
	StatusBegin      = "Select a folder to begin"
	StatusMissing    = "Selected folder no longer exists"
	StatusIconReady  = "Icon ready to apply"
	StatusApplied    = "Folder customization applied"
	StatusApplyFail  = "Failed to apply folder customization"
	StatusNoReset    = "Nothing to reset"
	StatusReset      = "Folder customization reset"
	StatusResetFail  = "Failed to reset folder customization"
	StatusRevealed   = "Revealed in file manager"
	StatusRevealFail = "Could not reveal folder"
)

// Snapshot is one state of the studio. Snapshots are values: Update receives
// a copy and the images they point to are never modified.
type Snapshot struct {
	Revision uint64

	Folder    string
	Texture   folder.Texture
	Tint      color.NRGBA
	Intensity float64

	Overlay image.Image
	// Symbol names the glyph Overlay was rasterized from, empty for images.
	Symbol string
	Mode   overlay.Mode
	Params overlay.Params

	Status  string
	Symbols []string
}

func DefaultSnapshot() Snapshot {
	return Snapshot{
		Texture:   folder.Current,
		Tint:      palette.FolderTint,
		Intensity: DefaultIntensity,
		Mode:      overlay.OverlayMode,
		Params:    overlay.DefaultParams(),
		Status:    StatusReady,
		Symbols:   glyph.Names(),
	}
}

func (s Snapshot) FromSymbol() bool {
	return s.Symbol != ""
}

// Request describes the preview render of s.
func (s Snapshot) Request() render.Request {
	return render.Request{
		Texture:   s.Texture,
		Folder:    s.Folder,
		Tint:      s.Tint,
		Intensity: s.Intensity,
		Overlay:   s.Overlay,
		Mode:      s.Mode,
		Params:    s.Params.Clamp(),
	}
}

// WithSymbol returns s with name first in the symbol library. Names already
// present are left where they are.
func (s Snapshot) WithSymbol(name string) Snapshot {
	if name == "" || slices.Contains(s.Symbols, name) {
		return s
	}
	s.Symbols = append([]string{name}, s.Symbols...)
	return s
}

func (s Snapshot) WithoutSymbol(name string) Snapshot {
	if i := slices.Index(s.Symbols, name); i >= 0 {
		s.Symbols = slices.Delete(slices.Clone(s.Symbols), i, i+1)
	}
	return s
}
