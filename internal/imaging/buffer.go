package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Mode identifies the channel layout of a Buffer.
//
// The string values are the names reported to callers in image info
// responses.
type Mode string

const (
	ModeL    Mode = "L"    // 8-bit luminance
	ModeLA   Mode = "LA"   // luminance + alpha
	ModeRGB  Mode = "RGB"  // three-channel color
	ModeRGBA Mode = "RGBA" // three-channel color + alpha
	ModeP    Mode = "P"    // 8-bit palette index
)

// Channels returns the number of samples stored per pixel.
func (m Mode) Channels() int {
	switch m {
	case ModeL, ModeP:
		return 1
	case ModeLA:
		return 2
	case ModeRGB:
		return 3
	case ModeRGBA:
		return 4
	}
	return 0
}

// HasAlpha reports whether the mode stores an alpha channel.
func (m Mode) HasAlpha() bool {
	return m == ModeLA || m == ModeRGBA
}

// IsGray reports whether the mode stores a single luminance channel.
func (m Mode) IsGray() bool {
	return m == ModeL || m == ModeLA
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m.Channels() > 0
}

// Buffer is an in-memory raster image.
//
// Samples are stored interleaved in row-major order: the sample for
// channel c of pixel (x, y) lives at Pix[(y*Width+x)*Mode.Channels()+c].
// Palette is only meaningful for ModeP, where each sample is an index into it.
//
// Operations in this package never modify a Buffer they receive; they
// return a new one.
type Buffer struct {
	Width   int
	Height  int
	Mode    Mode
	Pix     []uint8
	Palette color.Palette
}

// NewBuffer allocates a zeroed buffer of the given size and mode.
func NewBuffer(width, height int, mode Mode) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: buffer dimensions must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown color mode %q", ErrInvalidParameter, mode)
	}
	return newBuffer(width, height, mode), nil
}

// newBuffer is NewBuffer for callers that already validated their inputs.
func newBuffer(width, height int, mode Mode) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Mode:   mode,
		Pix:    make([]uint8, width*height*mode.Channels()),
	}
}

// Channels returns the number of samples per pixel.
func (b *Buffer) Channels() int {
	return b.Mode.Channels()
}

// Offset returns the index in Pix of the first sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Mode.Channels()
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Mode:   b.Mode,
		Pix:    make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	if b.Palette != nil {
		out.Palette = make(color.Palette, len(b.Palette))
		copy(out.Palette, b.Palette)
	}
	return out
}

// Equal reports whether two buffers have identical size, mode and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Width != o.Width || b.Height != o.Height || b.Mode != o.Mode || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// FromImage copies a decoded image into a new Buffer, choosing the mode
// that matches the image's color model.
//
//   - *image.Gray, *image.Gray16 -> ModeL
//   - *image.Paletted            -> ModeP
//   - *image.YCbCr, *image.CMYK, opaque *image.RGBA -> ModeRGB
//   - everything else            -> ModeRGBA
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := newBuffer(w, h, ModeL)
		for y := 0; y < h; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*w:(y+1)*w], src.Pix[start:start+w])
		}
		return out
	case *image.Gray16:
		out := newBuffer(w, h, ModeL)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = uint8(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y >> 8)
			}
		}
		return out
	case *image.Paletted:
		out := newBuffer(w, h, ModeP)
		out.Palette = make(color.Palette, len(src.Palette))
		copy(out.Palette, src.Palette)
		for y := 0; y < h; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*w:(y+1)*w], src.Pix[start:start+w])
		}
		return out
	}

	mode := ModeRGBA
	switch src := img.(type) {
	case *image.YCbCr, *image.CMYK:
		mode = ModeRGB
	case *image.RGBA:
		if src.Opaque() {
			mode = ModeRGB
		}
	}

	nrgba := toNRGBA(img)
	return fromNRGBA(nrgba, mode)
}

// NRGBA exports the buffer as a non-premultiplied RGBA image.
//
// Gray modes are replicated into R, G and B; modes without alpha are
// exported fully opaque; palette indices are resolved through the palette.
func (b *Buffer) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(b.Bounds())
	n := b.Width * b.Height
	ch := b.Channels()
	for i := 0; i < n; i++ {
		si := i * ch
		di := i * 4
		switch b.Mode {
		case ModeL:
			v := b.Pix[si]
			out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = v, v, v, 255
		case ModeLA:
			v := b.Pix[si]
			out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = v, v, v, b.Pix[si+1]
		case ModeRGB:
			out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = b.Pix[si], b.Pix[si+1], b.Pix[si+2], 255
		case ModeRGBA:
			copy(out.Pix[di:di+4], b.Pix[si:si+4])
		case ModeP:
			c := b.paletteNRGBA(b.Pix[si])
			out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = c.R, c.G, c.B, c.A
		}
	}
	return out
}

// paletteNRGBA resolves a palette index, treating out-of-range indices as
// opaque black the way image.Paletted does.
func (b *Buffer) paletteNRGBA(idx uint8) color.NRGBA {
	if int(idx) >= len(b.Palette) {
		return color.NRGBA{A: 255}
	}
	return color.NRGBAModel.Convert(b.Palette[idx]).(color.NRGBA)
}

// paletteHasAlpha reports whether any palette entry is not fully opaque.
func (b *Buffer) paletteHasAlpha() bool {
	for _, c := range b.Palette {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// fromNRGBA imports an NRGBA image into a buffer of the given mode.
//
// For gray modes the luminance of each pixel is stored; for an RGB image
// produced by exporting a gray buffer this recovers the original samples
// exactly. Alpha is dropped without compositing for modes without alpha;
// callers that need compositing go through Convert.
func fromNRGBA(img *image.NRGBA, mode Mode) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if mode == ModeP {
		return fromNRGBA(img, ModeRGBA).Convert(ModeP)
	}
	out := newBuffer(w, h, mode)
	ch := mode.Channels()
	for y := 0; y < h; y++ {
		row := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			si := row + x*4
			di := (y*w + x) * ch
			r, g, bl, a := img.Pix[si], img.Pix[si+1], img.Pix[si+2], img.Pix[si+3]
			switch mode {
			case ModeL:
				out.Pix[di] = luma(r, g, bl)
			case ModeLA:
				out.Pix[di], out.Pix[di+1] = luma(r, g, bl), a
			case ModeRGB:
				out.Pix[di], out.Pix[di+1], out.Pix[di+2] = r, g, bl
			case ModeRGBA:
				out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = r, g, bl, a
			}
		}
	}
	return out
}

// toNRGBA returns img as an *image.NRGBA anchored at the origin, copying
// only when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
