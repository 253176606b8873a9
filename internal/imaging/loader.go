package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// FormatUnknown is reported for buffers whose source format is not known.
const FormatUnknown = "Unknown"

// ImageExtensions lists the file extensions ListImages accepts, lowercase.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// Decoded is an image read from a file or an encoded payload.
type Decoded struct {
	// Buffer holds the decoded pixels.
	Buffer *Buffer

	// Format is the detected source format in upper case: "PNG", "JPEG",
	// "GIF", "BMP", "TIFF" or "WEBP". Detection uses file contents, not the
	// file extension.
	Format string
}

// LoadFile reads and decodes the image at path.
//
// # Errors
//
//   - ErrNotFound if the path does not exist
//   - ErrIOFailure if the file cannot be read or is not a supported image
func LoadFile(path string) (*Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to open image: %v", ErrIOFailure, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %s: %v", ErrIOFailure, path, err)
	}
	return &Decoded{Buffer: FromImage(img), Format: strings.ToUpper(format)}, nil
}

// DecodeBytes decodes an encoded image held in memory.
//
// Payloads supplied by callers are parameters, so undecodable data is
// reported as ErrInvalidParameter rather than an I/O failure.
func DecodeBytes(data []byte) (*Decoded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrInvalidParameter, err)
	}
	return &Decoded{Buffer: FromImage(img), Format: strings.ToUpper(format)}, nil
}

// DecodeBase64 decodes a base64-encoded image. A data URL prefix such as
// "data:image/png;base64," is accepted and stripped, as is surrounding
// whitespace.
func DecodeBase64(s string) (*Decoded, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrInvalidParameter, err)
	}
	return DecodeBytes(data)
}

// ListImages returns the full paths of the image files directly inside dir,
// sorted lexically. A file qualifies when its extension, compared without
// regard to case, is one of ImageExtensions. Subdirectories are not searched.
func ListImages(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrNotFound, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read directory: %v", ErrIOFailure, err)
	}

	files := []string{}
	for _, e := range entries {
		if e.IsDir() || !isImageName(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isImageName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range ImageExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
