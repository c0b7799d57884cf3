package icon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/ini.v1"
)

const (
	desktopGroup = "Desktop Entry"
	iconKey      = "Icon"
)

func init() {
	// .directory files are written as key=value without blank lines between
	// groups, like the file managers do.
	ini.PrettyFormat = false
	ini.PrettySection = false
}

// desktopEntry is a .directory file. Groups, keys and comments written by
// other tools are kept in order across a rewrite.
type desktopEntry struct {
	name string
	file *ini.File
}

func readDesktopEntry(name string) (*desktopEntry, error) {
	opts := ini.LoadOptions{
		Loose:                   true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}
	f, err := ini.LoadSources(opts, name)
	if err != nil {
		return nil, fmt.Errorf("could not read desktop entry %q: %w", name, err)
	}
	return &desktopEntry{name: name, file: f}, nil
}

func (e *desktopEntry) Get(key string) string {
	sec, err := e.file.GetSection(desktopGroup)
	if err != nil || !sec.HasKey(key) {
		return ""
	}
	return sec.Key(key).String()
}

func (e *desktopEntry) Set(key, value string) {
	e.file.Section(desktopGroup).Key(key).SetValue(value)
}

func (e *desktopEntry) Delete(key string) {
	if sec, err := e.file.GetSection(desktopGroup); err == nil {
		sec.DeleteKey(key)
	}
}

// empty reports whether no group other than an empty [Desktop Entry] is left.
func (e *desktopEntry) empty() bool {
	for _, sec := range e.file.Sections() {
		switch {
		case len(sec.Keys()) > 0:
			return false
		case sec.Name() != ini.DefaultSection && sec.Name() != desktopGroup:
			return false
		}
	}
	return true
}

// Save rewrites the file, or deletes it when nothing is left in it.
func (e *desktopEntry) Save() error {
	if e.empty() {
		if err := os.Remove(e.name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not delete desktop entry %q: %w", e.name, err)
		}
		return nil
	}

	if err := e.file.SaveTo(e.name); err != nil {
		return fmt.Errorf("could not write desktop entry %q: %w", e.name, err)
	}
	return nil
}
