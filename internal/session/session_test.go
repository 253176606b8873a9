package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-editor-ipc/internal/imaging"
)

func gradient(t *testing.T, w, h int) *imaging.Buffer {
	t.Helper()
	b, err := imaging.NewBuffer(w, h, imaging.ModeRGB)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 7)
	}
	return b
}

func TestEmptySession(t *testing.T) {
	s := New()
	assert.False(t, s.Loaded())

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoImageLoaded)

	_, err = s.Info()
	assert.ErrorIs(t, err, ErrNoImageLoaded)

	_, _, err = s.Reset()
	assert.ErrorIs(t, err, ErrNoImageLoaded)

	called := false
	_, _, err = s.Apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		called = true
		return b, nil
	})
	assert.ErrorIs(t, err, ErrNoImageLoaded)
	assert.False(t, called, "operations must not run without an image")
}

func TestLoad(t *testing.T) {
	s := New()
	src := gradient(t, 6, 4)

	info := s.Load(src, "PNG", "/tmp/a.png")
	assert.Equal(t, Info{Width: 6, Height: 4, Mode: imaging.ModeRGB, Format: "PNG"}, info)
	assert.True(t, s.Loaded())
	assert.Equal(t, "/tmp/a.png", s.Source())

	cur, err := s.Current()
	require.NoError(t, err)
	assert.True(t, cur.Equal(src))

	src.Pix[0] = 99
	assert.NotEqual(t, uint8(99), cur.Pix[0], "session must own its copy")
}

func TestLoad_UnknownFormat(t *testing.T) {
	s := New()
	info := s.Load(gradient(t, 2, 2), "", "base64")
	assert.Equal(t, imaging.FormatUnknown, info.Format)
}

func TestApply_ReplacesCurrent(t *testing.T) {
	s := New()
	s.Load(gradient(t, 8, 8), "PNG", "")

	cur, info, err := s.Apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.CropCenter(b, 4, 2)
	})
	require.NoError(t, err)
	assert.Equal(t, 4, cur.Width)
	assert.Equal(t, 2, info.Height)
	assert.Equal(t, "PNG", info.Format, "format survives transforms")

	got, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestApply_FailureLeavesCurrent(t *testing.T) {
	s := New()
	s.Load(gradient(t, 8, 8), "PNG", "")
	before, _ := s.Current()

	boom := errors.New("boom")
	_, _, err := s.Apply(func(*imaging.Buffer) (*imaging.Buffer, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, _, err = s.Apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.CropCenter(b, 100, 100)
	})
	assert.ErrorIs(t, err, imaging.ErrInvalidParameter)

	after, _ := s.Current()
	assert.Same(t, before, after)
}

func TestApply_IdentityResultIsCopied(t *testing.T) {
	s := New()
	s.Load(gradient(t, 4, 4), "PNG", "")
	before, _ := s.Current()

	cur, _, err := s.Apply(func(b *imaging.Buffer) (*imaging.Buffer, error) { return b, nil })
	require.NoError(t, err)
	assert.NotSame(t, before, cur)
	assert.True(t, before.Equal(cur))
}

func TestReset_RestoresOriginal(t *testing.T) {
	s := New()
	src := gradient(t, 10, 6)
	s.Load(src, "JPEG", "")

	ops := []Operation{
		func(b *imaging.Buffer) (*imaging.Buffer, error) { return imaging.Invert(b), nil },
		func(b *imaging.Buffer) (*imaging.Buffer, error) { return imaging.Rotate(b, 30, true, imaging.White), nil },
		func(b *imaging.Buffer) (*imaging.Buffer, error) { return imaging.Grayscale(b), nil },
	}
	for _, op := range ops {
		_, _, err := s.Apply(op)
		require.NoError(t, err)
	}

	cur, info, err := s.Reset()
	require.NoError(t, err)
	assert.True(t, cur.Equal(src))
	assert.Equal(t, Info{Width: 10, Height: 6, Mode: imaging.ModeRGB, Format: "JPEG"}, info)

	// resetting twice and mutating the result must not reach the original
	cur.Pix[0] ^= 0xFF
	again, _, err := s.Reset()
	require.NoError(t, err)
	assert.True(t, again.Equal(src))
}

func TestLoad_ReplacesPair(t *testing.T) {
	s := New()
	s.Load(gradient(t, 3, 3), "PNG", "first")
	second := gradient(t, 5, 2)
	s.Load(second, "GIF", "second")

	cur, info, err := s.Reset()
	require.NoError(t, err)
	assert.True(t, cur.Equal(second))
	assert.Equal(t, "GIF", info.Format)
}

func TestSession_ConcurrentApply(t *testing.T) {
	s := New()
	s.Load(gradient(t, 16, 16), "PNG", "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Apply(func(b *imaging.Buffer) (*imaging.Buffer, error) { return imaging.Invert(b), nil })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// an even number of inversions restores the original
	cur, err := s.Current()
	require.NoError(t, err)
	assert.True(t, cur.Equal(gradient(t, 16, 16)))
}
