package imaging

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    imaging.Format
		wantErr bool
	}{
		{"PNG", imaging.PNG, false},
		{"png", imaging.PNG, false},
		{"JPEG", imaging.JPEG, false},
		{"jpg", imaging.JPEG, false},
		{"GIF", imaging.GIF, false},
		{"BMP", imaging.BMP, false},
		{"TIFF", imaging.TIFF, false},
		{"tif", imaging.TIFF, false},
		{"WEBP", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := createPatternBuffer(16, 10)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", "deeper", name)
			require.NoError(t, SaveFile(src, path, DefaultSaveQuality))

			got, err := LoadFile(path)
			require.NoError(t, err)
			assert.True(t, got.Buffer.Convert(ModeRGB).Equal(src))
		})
	}
}

func TestSaveFile_GrayStaysGray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	src := createGradientBuffer(9, 9, ModeL)
	require.NoError(t, SaveFile(src, path, DefaultSaveQuality))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ModeL, got.Buffer.Mode)
	assert.True(t, got.Buffer.Equal(src))
}

func TestSaveFile_JPEGCompositesOverWhite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear.jpg")
	src := solidBuffer(t, 16, 16, ModeRGBA, 0, 0, 0, 0)
	require.NoError(t, SaveFile(src, path, 90))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "JPEG", got.Format)
	px := pixelAt(got.Buffer.Convert(ModeRGB), 8, 8)
	for _, v := range px {
		assert.GreaterOrEqual(t, v, uint8(250), "transparent pixels should save as white")
	}
}

func TestSaveFile_QualityAffectsSize(t *testing.T) {
	dir := t.TempDir()
	src := createGradientBuffer(64, 64, ModeRGB)
	low := filepath.Join(dir, "low.jpg")
	high := filepath.Join(dir, "high.jpg")
	require.NoError(t, SaveFile(src, low, 10))
	require.NoError(t, SaveFile(src, high, 100))

	lowInfo, err := os.Stat(low)
	require.NoError(t, err)
	highInfo, err := os.Stat(high)
	require.NoError(t, err)
	assert.Less(t, lowInfo.Size(), highInfo.Size())
}

func TestSaveFile_UnsupportedExtension(t *testing.T) {
	err := SaveFile(createPatternBuffer(2, 2), filepath.Join(t.TempDir(), "out.xyz"), DefaultSaveQuality)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSaveFile_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := SaveFile(createPatternBuffer(2, 2), filepath.Join(blocker, "out.png"), DefaultSaveQuality)
	assert.ErrorIs(t, err, ErrIOFailure)
}

func TestEncodeBase64(t *testing.T) {
	src := createPatternBuffer(8, 8)

	png, err := EncodeBase64(src, "PNG")
	require.NoError(t, err)
	got, err := DecodeBase64(png)
	require.NoError(t, err)
	assert.Equal(t, "PNG", got.Format)
	assert.True(t, got.Buffer.Equal(src), "PNG is lossless at full resolution")

	jpg, err := EncodeBase64(src, "jpeg")
	require.NoError(t, err)
	got, err = DecodeBase64(jpg)
	require.NoError(t, err)
	assert.Equal(t, "JPEG", got.Format)

	_, err = EncodeBase64(src, "WEBP")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEncodeBase64_KeepsAlphaInPNG(t *testing.T) {
	src := createGradientBuffer(5, 5, ModeRGBA)
	s, err := EncodeBase64(src, "PNG")
	require.NoError(t, err)
	got, err := DecodeBase64(s)
	require.NoError(t, err)
	assert.Equal(t, ModeRGBA, got.Buffer.Mode)
	assert.Equal(t, alphaOf(src), alphaOf(got.Buffer))
}

type recordingPrinter struct {
	path        string
	printerName string
	existed     bool
	err         error
}

func (p *recordingPrinter) Print(path, printerName string) error {
	p.path = path
	p.printerName = printerName
	_, err := os.Stat(path)
	p.existed = err == nil
	return p.err
}

func TestPrintBuffer(t *testing.T) {
	p := &recordingPrinter{}
	require.NoError(t, PrintBuffer(p, createPatternBuffer(4, 4), "office"))

	assert.Equal(t, "office", p.printerName)
	assert.True(t, p.existed, "file must exist while printing")
	_, err := os.Stat(p.path)
	assert.True(t, os.IsNotExist(err), "temporary file must be removed")
}

func TestPrintBuffer_PrinterError(t *testing.T) {
	want := errors.New("offline")
	err := PrintBuffer(&recordingPrinter{err: want}, createPatternBuffer(2, 2), "")
	assert.ErrorIs(t, err, want)
}

func TestLPRPrinter(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true command not available")
	}
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false command not available")
	}

	assert.NoError(t, LPRPrinter{Command: "true"}.Print("/tmp/x.png", "office"))

	err := LPRPrinter{Command: "false"}.Print("/tmp/x.png", "")
	assert.ErrorIs(t, err, ErrIOFailure)
}
