package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultSaveQuality is the JPEG quality used when a caller gives none.
const DefaultSaveQuality = 95

// ParseFormat resolves an output format name such as "PNG", "jpeg" or
// "tif". Names are matched without regard to case.
func ParseFormat(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, fmt.Errorf("%w: unsupported image format %q (want PNG, JPEG, GIF, BMP or TIFF)", ErrInvalidParameter, name)
	}
	return f, nil
}

// Image exports the buffer as the closest standard library image type:
// *image.Gray for ModeL, *image.Paletted for ModeP and *image.NRGBA for
// everything else.
func (b *Buffer) Image() image.Image {
	switch b.Mode {
	case ModeL:
		img := image.NewGray(b.Bounds())
		copy(img.Pix, b.Pix)
		return img
	case ModeP:
		img := image.NewPaletted(b.Bounds(), b.Palette)
		copy(img.Pix, b.Pix)
		return img
	}
	return b.NRGBA()
}

// Flatten composites alpha onto opaque white, returning ModeL for
// luminance sources and ModeRGB for everything else. Buffers without
// alpha are returned as copies in the same family.
func Flatten(b *Buffer) *Buffer {
	if b.Mode.IsGray() {
		return b.Convert(ModeL)
	}
	return b.Convert(ModeRGB)
}

// Encode writes the buffer to w in the given format. JPEG output has any
// alpha composited over white first and uses quality (1-100).
func Encode(w io.Writer, b *Buffer, format imaging.Format, quality int) error {
	img := b.Image()
	if format == imaging.JPEG {
		img = Flatten(b).Image()
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", ErrIOFailure, format, err)
	}
	return nil
}

// EncodeJPEG writes the buffer to w as a JPEG of the given quality.
func EncodeJPEG(w io.Writer, b *Buffer, quality int) error {
	return Encode(w, b, imaging.JPEG, quality)
}

// EncodeBase64 encodes the full-resolution buffer in the named format and
// returns the standard base64 encoding of the result.
func EncodeBase64(b *Buffer, formatName string) (string, error) {
	format, err := ParseFormat(formatName)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, b, format, DefaultSaveQuality); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveFile writes the buffer to path, creating missing parent directories.
// The format is chosen from the file extension; quality applies to JPEG.
//
// # Errors
//
//   - ErrInvalidParameter if the extension names no supported output format
//   - ErrIOFailure if the directory or file cannot be written
func SaveFile(b *Buffer, path string, quality int) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: unsupported output extension %q", ErrInvalidParameter, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: failed to create directory: %v", ErrIOFailure, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %v", ErrIOFailure, err)
	}
	if err := Encode(f, b, format, quality); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", ErrIOFailure, err)
	}
	return nil
}
