// Package drop resolves drag and drop payloads into overlay inputs.
package drop

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"strings"

	"customfolder/imageio"
)

// Item is one representation offered by a drop.
type Item interface {
	item()
}

type (
	// Text is a plain text payload, read as a symbol name.
	Text string
	// FileURL points at an image file, either as a file:// URL or a path.
	FileURL string
	// RawImage is an encoded image.
	RawImage []byte
)

func (Text) item()     {}
func (FileURL) item()  {}
func (RawImage) item() {}

type Kind uint8

const (
	None Kind = iota
	Symbol
	Image
)

func (k Kind) String() string {
	switch k {
	case Symbol:
		return "symbol"
	case Image:
		return "image"
	default:
		return "none"
	}
}

type Result struct {
	Kind   Kind
	Symbol string
	Image  image.Image
	// Err explains a None result, it is nil for an empty payload.
	Err error
}

// Task is a payload being resolved in the background.
type Task struct {
	Kind Kind
	done chan struct{}
	res  Result
}

func start(kind Kind, fn func() Result) *Task {
	t := &Task{Kind: kind, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.res = fn()
	}()
	return t
}

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the payload is resolved or ctx is done.
func (t *Task) Wait(ctx context.Context) Result {
	select {
	case <-t.done:
		return t.res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// Dispatch picks the payload to use, text first, then file URLs, then raw
// images, and starts resolving it. It reports false when no item is usable.
func Dispatch(items []Item) (*Task, bool) {
	var (
		file              FileURL
		raw               RawImage
		haveFile, haveRaw bool
	)

	for _, it := range items {
		switch v := it.(type) {
		case Text:
			return start(Symbol, func() Result { return resolveText(v) }), true
		case FileURL:
			if !haveFile {
				file, haveFile = v, true
			}
		case RawImage:
			if !haveRaw {
				raw, haveRaw = v, true
			}
		}
	}

	switch {
	case haveFile:
		return start(Image, func() Result { return resolveFile(file) }), true
	case haveRaw:
		return start(Image, func() Result { return resolveRaw(raw) }), true
	}
	return nil, false
}

func resolveText(t Text) Result {
	name := strings.TrimSpace(string(t))
	if name == "" {
		return Result{}
	}
	return Result{Kind: Symbol, Symbol: name}
}

func resolveFile(f FileURL) Result {
	name, err := filePath(string(f))
	if err != nil {
		return Result{Err: err}
	}

	img, err := imageio.Load(name)
	if err != nil {
		slog.Debug("dropped file is not an image", "name", name, "error", err)
		return Result{Err: err}
	}
	return Result{Kind: Image, Image: img}
}

func resolveRaw(r RawImage) Result {
	img, err := imageio.DecodeBytes(r)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Kind: Image, Image: img}
}

func filePath(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "://") {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("could not parse file URL %q: %w", s, err)
	} else if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	return u.Path, nil
}
