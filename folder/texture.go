package folder

import (
	"fmt"
	"strings"
)

// Texture selects the raw image the folder base is rendered from.
type Texture uint8

const (
	Full Texture = iota
	Empty
	// Current is the live icon of the selected folder.
	Current
)

var textureNames = [...]string{
	Full:    "full",
	Empty:   "empty",
	Current: "current",
}

func (t Texture) String() string {
	if int(t) < len(textureNames) {
		return textureNames[t]
	}
	return fmt.Sprintf("texture(%d)", uint8(t))
}

func ParseTexture(s string) (Texture, error) {
	for i, name := range textureNames {
		if strings.EqualFold(s, name) {
			return Texture(i), nil
		}
	}
	return 0, fmt.Errorf("unknown folder texture %q", s)
}

func (t Texture) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Texture) UnmarshalText(b []byte) error {
	v, err := ParseTexture(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
