package icon

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"customfolder/canvas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.NRGBA) *image.NRGBA {
	img := canvas.New()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var (
	blue = color.NRGBA{B: 0xff, A: 0xff}
	red  = color.NRGBA{R: 0xff, A: 0xff}
)

func TestSetIconWritesDesktopEntry(t *testing.T) {
	dir := t.TempDir()
	s := &DirectoryStore{Default: solid(blue)}

	require.True(t, s.SetIcon(solid(red), dir))

	data, err := os.ReadFile(filepath.Join(dir, DesktopFile))
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\nIcon=./.folder-icon.png\n", string(data))

	img, err := s.Icon(dir)
	require.NoError(t, err)
	assert.Equal(t, red, color.NRGBAModel.Convert(img.At(10, 10)))
	assert.True(t, s.HasCustomIcon(dir))
}

func TestSetIconKeepsOtherKeys(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, DesktopFile)
	require.NoError(t, os.WriteFile(name, []byte("[Desktop Entry]\nIcon=folder-red\nComment=hi\n[Other]\nIcon=x\n"), 0o644))

	s := &DirectoryStore{Default: solid(blue)}
	require.True(t, s.SetIcon(solid(red), dir))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\nIcon=./.folder-icon.png\nComment=hi\n[Other]\nIcon=x\n", string(data))

	require.True(t, s.RemoveIcon(dir))
	data, err = os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\nComment=hi\n[Other]\nIcon=x\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir, IconFile))
}

func TestSetIconKeepsCommentsAndLocalizedKeys(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, DesktopFile)
	require.NoError(t, os.WriteFile(name, []byte("[Desktop Entry]\n# written by hand\nName[de]=Bilder\n"), 0o644))

	s := &DirectoryStore{Default: solid(blue)}
	require.True(t, s.SetIcon(solid(red), dir))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\n# written by hand\nName[de]=Bilder\nIcon=./.folder-icon.png\n", string(data))
}

func TestRemoveIconDeletesEmptyEntry(t *testing.T) {
	dir := t.TempDir()
	s := &DirectoryStore{Default: solid(blue)}
	require.True(t, s.SetIcon(solid(red), dir))

	require.True(t, s.RemoveIcon(dir))
	assert.NoFileExists(t, filepath.Join(dir, DesktopFile))
	assert.NoFileExists(t, filepath.Join(dir, IconFile))
	assert.False(t, s.HasCustomIcon(dir))

	img, err := s.Icon(dir)
	require.NoError(t, err)
	assert.Same(t, s.Default, img)
}

func TestHasCustomIconComparesPixels(t *testing.T) {
	dir := t.TempDir()
	s := &DirectoryStore{Default: solid(blue)}

	assert.False(t, s.HasCustomIcon(dir))

	// Writing the default picture is not a customization.
	require.True(t, s.SetIcon(solid(blue), dir))
	assert.False(t, s.HasCustomIcon(dir))
}

func TestMissingFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	s := &DirectoryStore{}

	assert.False(t, s.SetIcon(solid(red), dir))
	assert.False(t, s.RemoveIcon(dir))
	assert.False(t, s.HasCustomIcon(dir))
	_, err := s.Icon(dir)
	assert.Error(t, err)
	assert.NoDirExists(t, dir)
}

func TestDiffers(t *testing.T) {
	assert.False(t, Differs(solid(red), solid(red)))
	assert.True(t, Differs(solid(red), solid(blue)))
	assert.False(t, Differs(canvas.New(), canvas.New()))

	almost := solid(color.NRGBA{R: 0xfe, A: 0xff})
	assert.False(t, Differs(solid(red), almost))
}

type countingAccess struct {
	acquired, released int
	err                error
}

func (a *countingAccess) Acquire(string) (func(), error) {
	if a.err != nil {
		return nil, a.err
	}
	a.acquired++
	return func() { a.released++ }, nil
}

func TestWithAccessReleases(t *testing.T) {
	a := &countingAccess{}

	assert.True(t, WithAccess(a, "/x", func() bool { return true }))
	assert.False(t, WithAccess(a, "/x", func() bool { return false }))
	assert.Panics(t, func() {
		WithAccess(a, "/x", func() bool { panic("boom") })
	})
	assert.Equal(t, 3, a.acquired)
	assert.Equal(t, 3, a.released)
}

func TestWithAccessDenied(t *testing.T) {
	a := &countingAccess{err: ErrNoAccess}
	called := false
	assert.False(t, WithAccess(a, "/x", func() bool { called = true; return true }))
	assert.False(t, called)
}

func TestOpenAccess(t *testing.T) {
	release, err := OpenAccess{}.Acquire(t.TempDir())
	require.NoError(t, err)
	release()

	_, err = OpenAccess{}.Acquire(filepath.Join(t.TempDir(), "gone"))
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestRevealFallsBackToOpen(t *testing.T) {
	var opened []string
	oldShow, oldOpen := showItems, openPath
	t.Cleanup(func() { showItems, openPath = oldShow, oldOpen })

	showItems = func(string) error { return errors.New("no bus") }
	openPath = func(p string) error { opened = append(opened, p); return nil }
	require.NoError(t, Reveal("/tmp/a"))
	assert.Equal(t, []string{"/tmp/a"}, opened)

	showItems = func(string) error { return nil }
	require.NoError(t, Reveal("/tmp/b"))
	assert.Len(t, opened, 1)

	showItems = func(string) error { return errors.New("no bus") }
	openPath = func(string) error { return errors.New("no handler") }
	assert.Error(t, Reveal("/tmp/c"))
}
