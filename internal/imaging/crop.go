package imaging

import "fmt"

// Crop extracts the box (left, top, right, bottom) from an image.
//
// The box is half-open: left and top are inclusive, right and bottom
// exclusive. It must have positive area and lie inside the image. Palette
// images stay palette images.
func Crop(src *Buffer, left, top, right, bottom int) (*Buffer, error) {
	if right <= left || bottom <= top {
		return nil, fmt.Errorf("%w: invalid crop box (%d,%d,%d,%d): right must be > left and bottom must be > top",
			ErrInvalidParameter, left, top, right, bottom)
	}
	if left < 0 || top < 0 || right > src.Width || bottom > src.Height {
		return nil, fmt.Errorf("%w: crop box (%d,%d,%d,%d) outside image bounds (0,0,%d,%d)",
			ErrInvalidParameter, left, top, right, bottom, src.Width, src.Height)
	}

	w, h := right-left, bottom-top
	out := newBuffer(w, h, src.Mode)
	if src.Palette != nil {
		out.Palette = append(out.Palette, src.Palette...)
	}
	ch := src.Channels()
	rowBytes := w * ch
	for y := 0; y < h; y++ {
		si := src.Offset(left, top+y)
		copy(out.Pix[y*rowBytes:(y+1)*rowBytes], src.Pix[si:si+rowBytes])
	}
	return out, nil
}

// CropCenter extracts a width x height box centered in the image.
//
// The box origin is ((W-width)/2, (H-height)/2) using floor division.
// Requesting a box larger than the image fails rather than clamping.
func CropCenter(src *Buffer, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop size must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	if width > src.Width || height > src.Height {
		return nil, fmt.Errorf("%w: crop size %dx%d larger than image %dx%d",
			ErrInvalidParameter, width, height, src.Width, src.Height)
	}
	left := (src.Width - width) / 2
	top := (src.Height - height) / 2
	return Crop(src, left, top, left+width, top+height)
}
