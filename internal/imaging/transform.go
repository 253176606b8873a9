package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Flip directions accepted by Flip.
const (
	FlipHorizontal = "horizontal"
	FlipVertical   = "vertical"
)

// Thumbnail scales the image down to fit within maxWidth x maxHeight
// while preserving its aspect ratio. Images already inside the box are
// returned unchanged; thumbnails never enlarge.
func Thumbnail(src *Buffer, maxWidth, maxHeight int) (*Buffer, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("%w: thumbnail bounds must be positive, got %dx%d", ErrInvalidParameter, maxWidth, maxHeight)
	}
	return geometric(src, func(img *image.NRGBA) *image.NRGBA {
		return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}), nil
}

// Resize scales the image to width x height with a Lanczos kernel.
//
// With keepAspect the image is scaled by min(width/W, height/H) instead,
// and each resulting dimension is rounded to the nearest integer (at least 1).
func Resize(src *Buffer, width, height int, keepAspect bool) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize dimensions must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	if keepAspect {
		width, height = FitDimensions(src.Width, src.Height, width, height)
	}
	return geometric(src, func(img *image.NRGBA) *image.NRGBA {
		return imaging.Resize(img, width, height, imaging.Lanczos)
	}), nil
}

// FitDimensions scales srcW x srcH by min(maxW/srcW, maxH/srcH) and rounds
// each result to the nearest integer, never below 1.
func FitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Rotate turns the image counter-clockwise by angle degrees.
//
// With expand the canvas grows to the rotated bounding box; otherwise the
// source canvas size is kept and the rotated image is centered on it.
// Uncovered areas are painted with fill, fully opaque.
func Rotate(src *Buffer, angle float64, expand bool, fill RGBColor) *Buffer {
	bg := fill.NRGBA()
	return geometric(src, func(img *image.NRGBA) *image.NRGBA {
		rotated := imaging.Rotate(img, angle, bg)
		if expand {
			return rotated
		}
		canvas := imaging.New(src.Width, src.Height, bg)
		return imaging.PasteCenter(canvas, rotated)
	})
}

// Flip mirrors the image left-right ("horizontal") or top-bottom
// ("vertical"). Flipping twice in the same direction restores the source.
func Flip(src *Buffer, direction string) (*Buffer, error) {
	switch direction {
	case FlipHorizontal:
		return geometric(src, func(img *image.NRGBA) *image.NRGBA { return imaging.FlipH(img) }), nil
	case FlipVertical:
		return geometric(src, func(img *image.NRGBA) *image.NRGBA { return imaging.FlipV(img) }), nil
	}
	return nil, fmt.Errorf("%w: unknown flip direction %q (want %q or %q)",
		ErrInvalidParameter, direction, FlipHorizontal, FlipVertical)
}

// Pixelate produces a blocky mosaic: the image is sampled down to
// (W/size, H/size) with nearest-neighbor and back up to (W, H) the same way.
// A size of 1 leaves the image unchanged.
func Pixelate(src *Buffer, size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: pixel size must be positive, got %d", ErrInvalidParameter, size)
	}
	sw, sh := src.Width/size, src.Height/size
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return geometric(src, func(img *image.NRGBA) *image.NRGBA {
		small := imaging.Resize(img, sw, sh, imaging.NearestNeighbor)
		return imaging.Resize(small, src.Width, src.Height, imaging.NearestNeighbor)
	}), nil
}

// AddBorder surrounds the image with a solid border of the given width.
// A width of 0 returns an unchanged copy.
func AddBorder(src *Buffer, width int, c RGBColor) (*Buffer, error) {
	if width < 0 {
		return nil, fmt.Errorf("%w: border width must not be negative, got %d", ErrInvalidParameter, width)
	}
	work := src
	if src.Mode == ModeP {
		work = src.Convert(src.workingMode())
	}
	out := newBuffer(work.Width+2*width, work.Height+2*width, work.Mode)
	fill := c.samples(work.Mode)
	for i := 0; i < len(out.Pix); i += len(fill) {
		copy(out.Pix[i:], fill)
	}
	rowBytes := work.Width * work.Channels()
	for y := 0; y < work.Height; y++ {
		si := work.Offset(0, y)
		di := out.Offset(width, y+width)
		copy(out.Pix[di:di+rowBytes], work.Pix[si:si+rowBytes])
	}
	return out, nil
}

// geometric runs a library transform that moves pixels around. Alpha
// travels with the pixels; palette images come back expanded.
func geometric(src *Buffer, fn func(*image.NRGBA) *image.NRGBA) *Buffer {
	return fromNRGBA(fn(src.NRGBA()), src.workingMode())
}
