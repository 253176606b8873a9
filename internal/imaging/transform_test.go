package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResize(t *testing.T) {
	tests := []struct {
		name          string
		srcW, srcH    int
		w, h          int
		keepAspect    bool
		wantW, wantH  int
	}{
		{"exact", 40, 20, 10, 7, false, 10, 7},
		{"keep aspect landscape", 2000, 1000, 500, 500, true, 500, 250},
		{"keep aspect portrait", 100, 300, 60, 60, true, 20, 60},
		{"keep aspect enlarge", 10, 5, 100, 100, true, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newBuffer(tt.srcW, tt.srcH, ModeRGB)
			got, err := Resize(src, tt.w, tt.h, tt.keepAspect)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, got.Width)
			assert.Equal(t, tt.wantH, got.Height)
			assert.Equal(t, ModeRGB, got.Mode)
		})
	}
}

func TestResize_InvalidDimensions(t *testing.T) {
	src := createPatternBuffer(10, 10)
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-5, 5}} {
		_, err := Resize(src, dims[0], dims[1], false)
		assert.ErrorIs(t, err, ErrInvalidParameter, "dims %v", dims)
	}
}

func TestResize_KeepsAlpha(t *testing.T) {
	src := solidBuffer(t, 8, 8, ModeRGBA, 10, 200, 30, 90)
	got, err := Resize(src, 4, 4, false)
	require.NoError(t, err)
	assert.Equal(t, ModeRGBA, got.Mode)
	for _, a := range alphaOf(got) {
		assert.Equal(t, uint8(90), a)
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{2000, 1000, 500, 500, 500, 250},
		{1000, 2000, 1024, 1024, 512, 1024},
		{3000, 1000, 1024, 1024, 1024, 341},
		{100, 1, 10, 10, 10, 1},
	}

	for _, tt := range tests {
		w, h := FitDimensions(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitDimensions(%d, %d, %d, %d): got %dx%d, want %dx%d",
				tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestThumbnail(t *testing.T) {
	got, err := Thumbnail(newBuffer(300, 150, ModeRGB), 128, 128)
	require.NoError(t, err)
	assert.Equal(t, 128, got.Width)
	assert.Equal(t, 64, got.Height)
}

func TestThumbnail_NeverEnlarges(t *testing.T) {
	src := createPatternBuffer(50, 40)
	got, err := Thumbnail(src, 128, 128)
	require.NoError(t, err)
	assert.True(t, got.Equal(src))
}

func TestFlip_Involution(t *testing.T) {
	src := createGradientBuffer(7, 5, ModeRGBA)
	for _, dir := range []string{FlipHorizontal, FlipVertical} {
		t.Run(dir, func(t *testing.T) {
			once, err := Flip(src, dir)
			require.NoError(t, err)
			assert.False(t, once.Equal(src))

			twice, err := Flip(once, dir)
			require.NoError(t, err)
			assert.True(t, twice.Equal(src))
		})
	}
}

func TestFlip_Direction(t *testing.T) {
	src := createPatternBuffer(4, 4)

	h, err := Flip(src, FlipHorizontal)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 0}, pixelAt(h, 0, 0), "top-left should be green after horizontal flip")

	v, err := Flip(src, FlipVertical)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 255}, pixelAt(v, 0, 0), "top-left should be blue after vertical flip")
}

func TestFlip_UnknownDirection(t *testing.T) {
	_, err := Flip(createPatternBuffer(2, 2), "diagonal")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "diagonal")
}

func TestRotate_Expand(t *testing.T) {
	src := createPatternBuffer(40, 20)

	got := Rotate(src, 90, true, White)
	assert.Equal(t, 20, got.Width)
	assert.Equal(t, 40, got.Height)
	// counter-clockwise: the top-right quadrant (green) moves to the top-left
	assert.Equal(t, []uint8{0, 255, 0}, pixelAt(got, 0, 0))

	got = Rotate(src, 45, true, White)
	assert.Greater(t, got.Width, 40)
	assert.Greater(t, got.Height, 20)
}

func TestRotate_FixedCanvasFillsCorners(t *testing.T) {
	src := solidBuffer(t, 20, 20, ModeRGB, 255, 0, 0)
	fill := RGBColor{0, 0, 255}

	got := Rotate(src, 45, false, fill)
	assert.Equal(t, 20, got.Width)
	assert.Equal(t, 20, got.Height)
	assert.Equal(t, []uint8{0, 0, 255}, pixelAt(got, 0, 0))
	assert.Equal(t, []uint8{255, 0, 0}, pixelAt(got, 10, 10))
}

func TestPixelate(t *testing.T) {
	src := createGradientBuffer(16, 16, ModeRGB)

	same, err := Pixelate(src, 1)
	require.NoError(t, err)
	assert.True(t, same.Equal(src), "pixel size 1 should be a no-op")

	got, err := Pixelate(src, 8)
	require.NoError(t, err)
	require.Equal(t, 16, got.Width)
	require.Equal(t, 16, got.Height)
	for by := 0; by < 2; by++ {
		for bx := 0; bx < 2; bx++ {
			want := pixelAt(got, bx*8, by*8)
			for y := by * 8; y < by*8+8; y++ {
				for x := bx * 8; x < bx*8+8; x++ {
					assert.Equal(t, want, pixelAt(got, x, y), "block (%d,%d) pixel (%d,%d)", bx, by, x, y)
				}
			}
		}
	}

	_, err = Pixelate(src, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPixelate_LargerThanImage(t *testing.T) {
	src := createPatternBuffer(6, 4)
	got, err := Pixelate(src, 100)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Width)
	assert.Equal(t, 4, got.Height)
	first := pixelAt(got, 0, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, first, pixelAt(got, x, y))
		}
	}
}

func TestAddBorder(t *testing.T) {
	src := createPatternBuffer(4, 4)

	same, err := AddBorder(src, 0, RGBColor{})
	require.NoError(t, err)
	assert.True(t, same.Equal(src))

	got, err := AddBorder(src, 2, RGBColor{255, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 8, got.Width)
	assert.Equal(t, 8, got.Height)
	assert.Equal(t, []uint8{255, 0, 0}, pixelAt(got, 0, 0))
	assert.Equal(t, []uint8{255, 0, 0}, pixelAt(got, 7, 7))
	assert.Equal(t, pixelAt(src, 0, 0), pixelAt(got, 2, 2))
	assert.Equal(t, pixelAt(src, 3, 3), pixelAt(got, 5, 5))

	_, err = AddBorder(src, -1, RGBColor{})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestAddBorder_AlphaBorderIsOpaque(t *testing.T) {
	src := solidBuffer(t, 2, 2, ModeLA, 10, 0)
	got, err := AddBorder(src, 1, White)
	require.NoError(t, err)
	assert.Equal(t, ModeLA, got.Mode)
	assert.Equal(t, []uint8{255, 255}, pixelAt(got, 0, 0))
	assert.Equal(t, []uint8{10, 0}, pixelAt(got, 1, 1))
}
