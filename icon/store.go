// Package icon persists composited icons as folder metadata.
//
// DirectoryStore follows the freedesktop convention used by Dolphin, Nemo and
// friends: the icon is written next to the folder content and referenced from
// the Icon key of the folder's .directory file.
package icon

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"customfolder/canvas"
	"customfolder/folder"
	"customfolder/imageio"
	"customfolder/okcolor"
)

// Store is the icon application boundary. Every method reports failure rather
// than panicking, the bool results only say whether the OS call succeeded.
type Store interface {
	SetIcon(img image.Image, path string) bool
	Icon(path string) (image.Image, error)
	HasCustomIcon(path string) bool
	RemoveIcon(path string) bool
}

const (
	IconFile    = ".folder-icon.png"
	DesktopFile = ".directory"

	// MaxDistance is the mean OKLab distance under which two icons are
	// considered the same picture.
	MaxDistance = 0.02
)

type DirectoryStore struct {
	// Default is the icon a folder shows without customization. Nil means the
	// generic folder icon.
	Default image.Image
}

var _ Store = (*DirectoryStore)(nil)

func (s *DirectoryStore) defaultIcon() image.Image {
	if s.Default != nil {
		return s.Default
	}
	return folder.GenericIcon()
}

func (s *DirectoryStore) SetIcon(img image.Image, path string) bool {
	logger := slog.Default().With("folder", path)

	if err := isDir(path); err != nil {
		logger.Error("could not set folder icon", "error", err)
		return false
	}

	if err := imageio.Save(img, "png", filepath.Join(path, IconFile)); err != nil {
		logger.Error("could not write folder icon", "error", err)
		return false
	}

	entry, err := readDesktopEntry(filepath.Join(path, DesktopFile))
	if err != nil {
		logger.Error("could not read desktop entry", "error", err)
		return false
	}
	entry.Set(iconKey, "./"+IconFile)
	if err := entry.Save(); err != nil {
		logger.Error("could not write desktop entry", "error", err)
		return false
	}

	logger.Info("folder icon set")
	return true
}

// Icon returns the icon a file manager would show for path.
func (s *DirectoryStore) Icon(path string) (image.Image, error) {
	if err := isDir(path); err != nil {
		return nil, err
	}

	name, err := s.iconPath(path)
	if err != nil {
		return nil, err
	} else if name == "" {
		return s.defaultIcon(), nil
	}

	img, err := imageio.Load(name)
	if err != nil {
		return nil, fmt.Errorf("could not load icon of %q: %w", path, err)
	}
	return img, nil
}

// HasCustomIcon compares the picture shown for path with the default icon.
func (s *DirectoryStore) HasCustomIcon(path string) bool {
	name, err := s.iconPath(path)
	if err != nil {
		slog.Warn("could not resolve folder icon", "folder", path, "error", err)
		return false
	} else if name == "" {
		return false
	}

	img, err := imageio.Load(name)
	if err != nil {
		// An unreadable icon still replaces the default one.
		slog.Warn("could not load folder icon", "folder", path, "error", err)
		return true
	}
	return Differs(img, s.defaultIcon())
}

func (s *DirectoryStore) RemoveIcon(path string) bool {
	logger := slog.Default().With("folder", path)

	if err := isDir(path); err != nil {
		logger.Error("could not remove folder icon", "error", err)
		return false
	}

	entry, err := readDesktopEntry(filepath.Join(path, DesktopFile))
	if err != nil {
		logger.Error("could not read desktop entry", "error", err)
		return false
	}

	if entry.Get(iconKey) == "./"+IconFile {
		entry.Delete(iconKey)
		if err := entry.Save(); err != nil {
			logger.Error("could not write desktop entry", "error", err)
			return false
		}
	}

	if err := os.Remove(filepath.Join(path, IconFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("could not delete folder icon", "error", err)
		return false
	}

	logger.Info("folder icon removed")
	return true
}

// iconPath resolves the Icon key of the desktop entry to an image file. It
// returns an empty name when the folder has no usable icon file.
func (s *DirectoryStore) iconPath(path string) (string, error) {
	entry, err := readDesktopEntry(filepath.Join(path, DesktopFile))
	if err != nil {
		return "", err
	}

	name := entry.Get(iconKey)
	if name == "" {
		return "", nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(path, name)
	}

	// Theme icon names are not files, the file manager draws its own icon.
	if st, err := os.Stat(name); err != nil || st.IsDir() {
		return "", nil
	}
	return name, nil
}

func isDir(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not stat folder %q: %w", path, err)
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a folder", path)
	}
	return nil
}

// Differs reports whether a and b look different once both are normalized on
// a canvas. The mean OKLab distance over visible pixels is compared with
// MaxDistance.
func Differs(a, b image.Image) bool {
	ca, cb := canvas.Fit(a), canvas.Fit(b)

	var sum float64
	var n int
	for i := 0; i < len(ca.Pix); i += 4 {
		pa, pb := ca.Pix[i:i+4:i+4], cb.Pix[i:i+4:i+4]
		if pa[3] == 0 && pb[3] == 0 {
			continue
		}
		sum += okcolor.Distance(nrgbaAt(pa), nrgbaAt(pb))
		n++
	}
	if n == 0 {
		return false
	}
	return sum/float64(n) > MaxDistance
}

func nrgbaAt(p []uint8) color.NRGBA {
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
