package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVignette_ZeroStrengthIsIdentity(t *testing.T) {
	src := createGradientBuffer(31, 17, ModeRGBA)
	assert.True(t, Vignette(src, 0).Equal(src))
}

func TestVignette_DarkensTowardCorners(t *testing.T) {
	src := solidBuffer(t, 40, 40, ModeRGB, 200, 200, 200)
	got := Vignette(src, 1)

	assert.Equal(t, []uint8{0, 0, 0}, pixelAt(got, 0, 0), "corners fall outside every ellipse")
	assert.Equal(t, []uint8{0, 0, 0}, pixelAt(got, 39, 39))

	center := pixelAt(got, 20, 20)[0]
	mid := pixelAt(got, 20, 8)[0]
	edge := pixelAt(got, 20, 0)[0]
	assert.Greater(t, center, uint8(150))
	assert.Greater(t, center, mid)
	assert.Greater(t, mid, edge)
}

func TestVignette_Symmetric(t *testing.T) {
	got := Vignette(solidBuffer(t, 30, 20, ModeL, 255), 0.7)
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			v := pixelAt(got, x, y)[0]
			assert.Equal(t, v, pixelAt(got, 29-x, y)[0], "mirror x at (%d,%d)", x, y)
			assert.Equal(t, v, pixelAt(got, x, 19-y)[0], "mirror y at (%d,%d)", x, y)
		}
	}
}

func TestVignette_KeepsAlpha(t *testing.T) {
	src := createGradientBuffer(20, 20, ModeRGBA)
	got := Vignette(src, 0.8)
	assert.Equal(t, alphaOf(src), alphaOf(got))
}

func TestVignette_SinglePixelRow(t *testing.T) {
	got := Vignette(solidBuffer(t, 10, 1, ModeRGB, 100, 100, 100), 0.5)
	assert.Equal(t, 10, got.Width)
	assert.Equal(t, 1, got.Height)
	assert.Equal(t, []uint8{50, 50, 50}, pixelAt(got, 5, 0))
}

func TestArtEffect_Poster(t *testing.T) {
	src := createGradientBuffer(10, 10, ModeRGB)
	got, err := ArtEffect(src, ArtPoster)
	require.NoError(t, err)
	assert.Equal(t, ModeRGB, got.Mode)
	for i, v := range got.Pix {
		assert.Equal(t, src.Pix[i]&0xE0, v, "sample %d", i)
	}
}

func TestArtEffect_Sketch(t *testing.T) {
	got, err := ArtEffect(createPatternBuffer(32, 32), ArtSketch)
	require.NoError(t, err)
	assert.Equal(t, ModeL, got.Mode)
	assert.Equal(t, 32, got.Width)

	flat, err := ArtEffect(solidBuffer(t, 16, 16, ModeRGB, 120, 120, 120), ArtSketch)
	require.NoError(t, err)
	for i, v := range flat.Pix {
		assert.InDelta(t, 120, int(v), 1, "sample %d", i)
	}
}

func TestArtEffect_OilPaint(t *testing.T) {
	src := createPatternBuffer(20, 20)
	got, err := ArtEffect(src, ArtOilPaint)
	require.NoError(t, err)
	assert.Equal(t, ModeRGB, got.Mode)
	assert.Equal(t, []uint8{255, 0, 0}, pixelAt(got, 4, 4), "flat regions survive")
}

func TestArtEffect_Cartoon(t *testing.T) {
	src := createEdgeTestBuffer(40, 40)
	for i := range src.Pix {
		if src.Pix[i] == 0 && i%3 == 0 {
			src.Pix[i] = 0xC7 // dark red square
		}
	}

	got, err := ArtEffect(src, ArtCartoon)
	require.NoError(t, err)
	assert.Equal(t, ModeRGB, got.Mode)
	assert.Equal(t, []uint8{0xC0, 0, 0}, pixelAt(got, 20, 20), "flat color is posterized to 4 bits")
	assert.Equal(t, []uint8{255, 255, 255}, pixelAt(got, 9, 20), "edges are drawn white")
}

func TestArtEffect_KeepsDimensions(t *testing.T) {
	src := createGradientBuffer(17, 11, ModeRGBA)
	for _, effect := range []string{ArtPoster, ArtSketch, ArtOilPaint, ArtCartoon} {
		got, err := ArtEffect(src, effect)
		require.NoError(t, err, effect)
		assert.Equal(t, 17, got.Width, effect)
		assert.Equal(t, 11, got.Height, effect)
	}
}

func TestArtEffect_Unknown(t *testing.T) {
	_, err := ArtEffect(createPatternBuffer(4, 4), "watercolor")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "watercolor")
}
