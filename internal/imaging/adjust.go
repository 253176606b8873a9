package imaging

import (
	"image"

	"github.com/disintegration/gift"
)

// The enhancement operations below share one formula: each builds a
// degenerate version of the source and interpolates
//
//	result = degenerate + factor * (source - degenerate)
//
// per color channel, clamped to 0-255. A factor of 1 returns the source,
// 0 returns the degenerate image, and larger values extrapolate away from
// it. Alpha is never touched.

// Brightness scales toward (factor < 1) or away from black.
func Brightness(src *Buffer, factor float64) *Buffer {
	work := src.Convert(src.workingMode())
	deg := newBuffer(work.Width, work.Height, work.Mode)
	return enhance(work, deg, factor)
}

// Contrast scales toward or away from a flat gray whose level is the mean
// luminance of the image.
func Contrast(src *Buffer, factor float64) *Buffer {
	work := src.Convert(src.workingMode())
	var sum float64
	n := work.Width * work.Height
	ch := work.Channels()
	for i := 0; i < n; i++ {
		r, g, b, _ := work.rgbaAt(i * ch)
		sum += float64(grayOf(work.Mode, r, g, b))
	}
	mean := uint8(sum/float64(n) + 0.5)

	deg := newBuffer(work.Width, work.Height, work.Mode)
	for i := range deg.Pix {
		deg.Pix[i] = mean
	}
	return enhance(work, deg, factor)
}

// Saturation scales toward or away from the grayscale version of the
// image. Gray images are returned unchanged.
func Saturation(src *Buffer, factor float64) *Buffer {
	work := src.Convert(src.workingMode())
	deg := newBuffer(work.Width, work.Height, work.Mode)
	n := work.Width * work.Height
	ch := work.Channels()
	for i := 0; i < n; i++ {
		r, g, b, _ := work.rgbaAt(i * ch)
		l := grayOf(work.Mode, r, g, b)
		for c := 0; c < colorChannels(work.Mode); c++ {
			deg.Pix[i*ch+c] = l
		}
	}
	return enhance(work, deg, factor)
}

// smoothKernel is the 3x3 smoothing kernel used as the degenerate image
// for Sharpness.
var smoothKernel = []float32{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Sharpness scales toward a smoothed copy (factor < 1 blurs) or away from
// it (factor > 1 sharpens).
func Sharpness(src *Buffer, factor float64) *Buffer {
	work := src.Convert(src.workingMode())
	deg := convolveColor(work, gift.Convolution(smoothKernel, true, false, false, 0))
	return enhance(work, deg, factor)
}

// enhance interpolates the color channels of src away from deg. The
// result shares src's mode and alpha.
func enhance(src, deg *Buffer, factor float64) *Buffer {
	out := src.Clone()
	ch := src.Channels()
	cc := colorChannels(src.Mode)
	n := src.Width * src.Height
	for i := 0; i < n; i++ {
		for c := 0; c < cc; c++ {
			j := i*ch + c
			d := float64(deg.Pix[j])
			out.Pix[j] = clampByte(d + factor*(float64(src.Pix[j])-d))
		}
	}
	return out
}

// colorChannels returns how many leading samples of a pixel are color
// (as opposed to alpha).
func colorChannels(m Mode) int {
	if m.HasAlpha() {
		return m.Channels() - 1
	}
	return m.Channels()
}

// convolveColor applies a gift filter list to the color channels of src.
// The filter sees an opaque image; the result keeps src's mode and alpha.
func convolveColor(src *Buffer, filters ...gift.Filter) *Buffer {
	g := gift.New(filters...)
	in := opaqueNRGBA(src)
	dst := image.NewNRGBA(g.Bounds(in.Bounds()))
	g.Draw(dst, in)
	return withColorFrom(dst, src)
}

// opaqueNRGBA exports the color channels of b with alpha forced opaque, so
// that library kernels filter color without premultiplication effects.
func opaqueNRGBA(b *Buffer) *image.NRGBA {
	img := b.NRGBA()
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// withColorFrom imports the color of a filtered same-size image into a
// buffer in src's working mode, restoring src's alpha channel.
func withColorFrom(filtered image.Image, src *Buffer) *Buffer {
	out := fromNRGBA(toNRGBA(filtered), src.workingMode())
	copyAlpha(out, src)
	return out
}
