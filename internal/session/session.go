// Package session tracks the image being edited.
//
// A Session is Empty until the first successful Load. Once loaded it holds
// two buffers: the original, captured at load time and never modified, and
// the current buffer, which every operation replaces wholesale. Reset
// restores the current buffer from the original.
package session

import (
	"errors"
	"sync"

	"github.com/ironsheep/image-editor-ipc/internal/imaging"
)

// ErrNoImageLoaded is returned by every operation that needs an image when
// the session is still Empty.
var ErrNoImageLoaded = errors.New("no image loaded")

// Operation transforms a buffer into a new one. It must not modify its
// input.
type Operation func(*imaging.Buffer) (*imaging.Buffer, error)

// Info describes the current image.
type Info struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Mode   imaging.Mode `json:"mode"`
	Format string       `json:"format"`
}

// Session holds the original and current buffers of one editing context.
// It is safe for concurrent use; calls are serialized.
type Session struct {
	mu       sync.Mutex
	original *imaging.Buffer
	current  *imaging.Buffer
	format   string
	source   string
}

// New returns an Empty session.
func New() *Session {
	return &Session{}
}

// Load replaces both buffers with independent copies of b. format is the
// source format name reported in Info ("" records it as unknown) and
// source is a free-form description of where the image came from.
func (s *Session) Load(b *imaging.Buffer, format, source string) Info {
	if format == "" {
		format = imaging.FormatUnknown
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = b.Clone()
	s.current = b.Clone()
	s.format = format
	s.source = source
	return s.infoLocked()
}

// Loaded reports whether an image has been loaded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Source returns the description passed to the most recent Load.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Current returns a snapshot of the current buffer. The snapshot is never
// modified by the session, and callers must not modify it either.
func (s *Session) Current() (*imaging.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNoImageLoaded
	}
	return s.current, nil
}

// Apply runs op on the current buffer and installs its result. A failing
// op leaves the session untouched.
func (s *Session) Apply(op Operation) (*imaging.Buffer, Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, Info{}, ErrNoImageLoaded
	}

	next, err := op(s.current)
	if err != nil {
		return nil, Info{}, err
	}
	if next == s.current || next == s.original {
		next = next.Clone()
	}
	s.current = next
	return s.current, s.infoLocked(), nil
}

// Reset makes the current buffer a fresh copy of the original.
func (s *Session) Reset() (*imaging.Buffer, Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.original == nil {
		return nil, Info{}, ErrNoImageLoaded
	}
	s.current = s.original.Clone()
	return s.current, s.infoLocked(), nil
}

// Info describes the current buffer.
func (s *Session) Info() (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Info{}, ErrNoImageLoaded
	}
	return s.infoLocked(), nil
}

func (s *Session) infoLocked() Info {
	return Info{
		Width:  s.current.Width,
		Height: s.current.Height,
		Mode:   s.current.Mode,
		Format: s.format,
	}
}
