package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"customfolder/drop"
	"customfolder/folder"
	"customfolder/glyph"
	"customfolder/icon"
	"customfolder/overlay"
	"customfolder/render"
)

var ErrFolderMissing = errors.New("selected folder no longer exists")

type Studio struct {
	mu       sync.Mutex
	snap     Snapshot
	pipeline *render.Pipeline
	store    icon.Store
	access   icon.Access
	reveal   func(string) error

	subs    map[int]chan Snapshot
	nextSub int
	dropSeq uint64
}

type Option func(*Studio)

func WithStore(store icon.Store) Option {
	return func(s *Studio) {
		s.store = store
	}
}

func WithAccess(a icon.Access) Option {
	return func(s *Studio) {
		s.access = a
	}
}

// WithPipeline replaces the pipeline built on top of the icon store.
func WithPipeline(p *render.Pipeline) Option {
	return func(s *Studio) {
		s.pipeline = p
	}
}

func WithRevealer(fn func(string) error) Option {
	return func(s *Studio) {
		s.reveal = fn
	}
}

func New(opts ...Option) *Studio {
	s := &Studio{
		snap:   DefaultSnapshot(),
		store:  &icon.DirectoryStore{},
		access: icon.OpenAccess{},
		reveal: icon.Reveal,
		subs:   map[int]chan Snapshot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = render.NewPipeline(folder.NewRenderer(s.store))
	}
	return s
}

func (s *Studio) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Update applies fn to the current snapshot and publishes the result. The
// render cache is dropped when the folder or its texture changed.
func (s *Studio) Update(fn func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(fn)
}

func (s *Studio) update(fn func(Snapshot) Snapshot) Snapshot {
	prev := s.snap
	next := fn(prev)
	next.Revision = prev.Revision + 1

	if next.Folder != prev.Folder || next.Texture != prev.Texture {
		s.pipeline.Invalidate()
	}
	s.snap = next

	for _, ch := range s.subs {
		publish(ch, next)
	}
	return next
}

// publish never blocks: a subscriber that fell behind loses its oldest
// pending snapshot.
func publish(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// Subscribe returns a channel receiving every published snapshot. cancel
// closes the channel.
func (s *Studio) Subscribe(buf int) (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, max(buf, 1))
	s.subs[id] = ch

	return ch, sync.OnceFunc(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		close(ch)
	})
}

func (s *Studio) setStatus(status string) Snapshot {
	return s.update(func(snap Snapshot) Snapshot {
		snap.Status = status
		return snap
	})
}

func (s *Studio) SelectFolder(path string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" {
		return s.setStatus(StatusBegin)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	slog.Info("folder selected", "folder", path)
	// The folder icon may have changed outside of the studio.
	s.pipeline.Invalidate()
	return s.update(func(snap Snapshot) Snapshot {
		snap.Folder = path
		snap.Status = StatusReady
		return snap
	})
}

// SetSymbol rasterizes a symbol and makes it the overlay. An unknown symbol
// only changes the status.
func (s *Studio) SetSymbol(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSymbol(name)
}

func (s *Studio) setSymbol(name string) bool {
	img, err := glyph.Rasterize(name)
	if err != nil {
		slog.Warn("could not rasterize symbol", "symbol", name, "error", err)
		s.setStatus(fmt.Sprintf("Could not use symbol %s", name))
		return false
	}
	s.setOverlay(img, name)
	return true
}

// SetImage makes img the overlay. Imported pictures start untinted with the
// normal blend mode.
func (s *Studio) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setOverlay(img, "")
}

func (s *Studio) setOverlay(img image.Image, symbol string) {
	s.update(func(snap Snapshot) Snapshot {
		if symbol == "" {
			snap.Params.Blend = overlay.Normal
			snap.Params.TintIntensity = 0
		}
		snap.Overlay = img
		snap.Symbol = symbol
		snap.Status = StatusIconReady
		return snap
	})
}

func (s *Studio) ClearOverlay() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearOverlay()
}

func (s *Studio) clearOverlay() Snapshot {
	return s.update(func(snap Snapshot) Snapshot {
		snap.Overlay = nil
		snap.Symbol = ""
		snap.Status = StatusReady
		return snap
	})
}

func (s *Studio) AddSymbol(name string) Snapshot {
	return s.Update(func(snap Snapshot) Snapshot { return snap.WithSymbol(name) })
}

func (s *Studio) RemoveSymbol(name string) Snapshot {
	return s.Update(func(snap Snapshot) Snapshot { return snap.WithoutSymbol(name) })
}

// Preview renders the icon for the current snapshot. The image may be shared
// with the render cache and must not be modified.
func (s *Studio) Preview() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.Preview(s.snap.Request())
}

// Apply writes the previewed icon to the selected folder.
func (s *Studio) Apply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.snap.Folder
	if path == "" {
		s.setStatus(StatusNoFolder)
		return false
	}

	img := s.pipeline.Preview(s.snap.Request())
	ok := icon.WithAccess(s.access, path, func() bool {
		return s.store.SetIcon(img, path)
	})

	if !ok {
		s.setStatus(StatusApplyFail)
		return false
	}
	s.pipeline.Invalidate()
	s.setStatus(StatusApplied)
	return true
}

// Reset removes the custom icon of the selected folder. Nothing is removed
// when the folder already shows the default icon.
func (s *Studio) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.selected()
	if err != nil {
		return false
	}

	hadCustom := icon.WithAccess(s.access, path, func() bool {
		return s.store.HasCustomIcon(path)
	})
	if !hadCustom {
		s.setStatus(StatusNoReset)
		return false
	}

	ok := icon.WithAccess(s.access, path, func() bool {
		return s.store.RemoveIcon(path)
	})
	if !ok {
		s.setStatus(StatusResetFail)
		return false
	}

	s.pipeline.Invalidate()
	s.clearOverlay()
	s.setStatus(StatusReset)
	return true
}

// Reveal shows the selected folder in the file manager.
func (s *Studio) Reveal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.selected()
	if err != nil {
		return false
	}

	if err := s.reveal(path); err != nil {
		slog.Error("could not reveal folder", "folder", path, "error", err)
		s.setStatus(StatusRevealFail)
		return false
	}
	s.setStatus(StatusRevealed)
	return true
}

// selected returns the selected folder after checking it still exists. A
// vanished folder is deselected.
func (s *Studio) selected() (string, error) {
	path := s.snap.Folder
	if path == "" {
		s.setStatus(StatusNoFolder)
		return "", errors.New("no folder selected")
	}

	if st, err := os.Stat(path); err != nil || !st.IsDir() {
		slog.Warn("selected folder is gone", "folder", path, "error", err)
		s.update(func(snap Snapshot) Snapshot {
			snap.Folder = ""
			snap.Status = StatusMissing
			return snap
		})
		return "", fmt.Errorf("%w: %q", ErrFolderMissing, path)
	}
	return path, nil
}

// Drop resolves a drag and drop payload in the background and applies it
// once ready. A later drop supersedes the pending ones, their results are
// discarded. done is closed once the result was applied or discarded.
func (s *Studio) Drop(ctx context.Context, items []drop.Item) (done <-chan struct{}, handled bool) {
	task, ok := drop.Dispatch(items)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	s.dropSeq++
	seq := s.dropSeq
	s.mu.Unlock()

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		res := task.Wait(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		logger := slog.Default().With("drop", seq, "kind", res.Kind)
		if seq != s.dropSeq {
			logger.Debug("discarding superseded drop")
			return
		}

		switch res.Kind {
		case drop.Symbol:
			s.setSymbol(res.Symbol)
		case drop.Image:
			s.setOverlay(res.Image, "")
		default:
			logger.Debug("drop did not resolve", "error", res.Err)
		}
	}()
	return ch, true
}
