package icon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

var ErrNoAccess = errors.New("no access to folder")

// Access grants scoped permission to a folder. release must be called exactly
// once for every successful Acquire.
type Access interface {
	Acquire(path string) (release func(), err error)
}

// OpenAccess is the unsandboxed Access: a folder is accessible when it exists
// and the process can write to it.
type OpenAccess struct{}

func (OpenAccess) Acquire(path string) (func(), error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrNoAccess, path, err)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%w %q: not a folder", ErrNoAccess, path)
	}

	if err := unix.Access(path, unix.W_OK); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrNoAccess, path, err)
	}
	return func() {}, nil
}

// WithAccess runs fn between Acquire and release. The permission is released
// on every exit path, panics included. A failed Acquire yields false without
// calling fn.
func WithAccess(a Access, path string, fn func() bool) bool {
	if a == nil {
		a = OpenAccess{}
	}

	release, err := a.Acquire(path)
	if err != nil {
		slog.Warn("could not access folder", "folder", path, "error", err)
		return false
	}
	defer release()

	return fn()
}
