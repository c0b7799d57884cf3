// Package imageio reads overlay images and writes rendered icons.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Formats lists the encodings Encode supports.
var Formats = []string{"png", "bmp", "tiff", "jpeg", "gif"}

// Load decodes the image stored at name.
func Load(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "name", name, "error", closeErr)
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", name, err)
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image payload.
func DecodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode image payload: %w", err)
	}
	return img, nil
}

// FormatFromPath picks an encoding from the file extension of name.
func FormatFromPath(name string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "jpg":
		ext = "jpeg"
	case "tif":
		ext = "tiff"
	}
	for _, f := range Formats {
		if f == ext {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %q", ext)
}

func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		return gif.Encode(w, img, &gif.Options{NumColors: 256, Drawer: draw.FloydSteinberg})
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Save writes img to dest through a temporary file in the same directory, so
// dest is either left untouched or fully written.
func Save(img image.Image, format, dest string) (err error) {
	destDir, destName := filepath.Split(dest)
	if destDir == "" {
		destDir = "."
	}

	outFile, err := os.CreateTemp(destDir, "."+destName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil {
				slog.Error("could not remove temporary file", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if err = Encode(outFile, img, format); err != nil {
		return fmt.Errorf("could not encode %s destination %q: %w", strings.ToUpper(format), destName, err)
	}

	canRename = true
	return err
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
