package imaging

import (
	"fmt"
	"math"

	"github.com/disintegration/imaging"
)

// Artistic effects accepted by ArtEffect.
const (
	ArtPoster   = "poster"
	ArtSketch   = "sketch"
	ArtOilPaint = "oil_paint"
	ArtCartoon  = "cartoon"
)

// Fixed parameters of the artistic pipelines.
const (
	posterBits      = 3
	cartoonBits     = 4
	sketchBlurSigma = 21
	sketchBlend     = 0.5
	oilPaintWindow  = 5
)

// Vignette darkens the image toward its border along concentric ellipses
// inscribed in the image rectangle.
//
// Ellipse i is inset by i pixels on every side, for i in [0, min(W,H)/2).
// A pixel whose center lies inside ellipse i (and no smaller one) gets the
// mask value 1 - strength*(1 - i/(min(W,H)/2)), quantized to 8 bits; pixels
// outside every ellipse (the corners) use i = 0. Strength 0 leaves the image
// unchanged and 1 fades the outer ring to black. Alpha is kept.
func Vignette(src *Buffer, strength float64) *Buffer {
	out := src.Convert(src.workingMode())
	w, h := out.Width, out.Height
	ch := out.Channels()
	cc := colorChannels(out.Mode)

	short := w
	if h < short {
		short = h
	}
	rings := short / 2
	half := float64(short) / 2
	cx, cy := float64(w)/2, float64(h)/2

	inside := func(i int, dx, dy float64) bool {
		ax, ay := cx-float64(i), cy-float64(i)
		return (dx*dx)/(ax*ax)+(dy*dy)/(ay*ay) <= 1
	}

	for y := 0; y < h; y++ {
		dy := float64(y) + 0.5 - cy
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - cx

			ring := 0
			if rings > 0 && inside(0, dx, dy) {
				lo, hi := 0, rings-1
				for lo < hi {
					mid := (lo + hi + 1) / 2
					if inside(mid, dx, dy) {
						lo = mid
					} else {
						hi = mid - 1
					}
				}
				ring = lo
			}

			mask := uint32(clamp(int(255*(1-strength*(1-float64(ring)/half))), 0, 255))
			i := (y*w + x) * ch
			for c := 0; c < cc; c++ {
				out.Pix[i+c] = uint8((uint32(out.Pix[i+c])*mask + 127) / 255)
			}
		}
	}
	return out
}

// ArtEffect applies one of the fixed artistic pipelines:
//
//   - "poster": color posterized to 3 bits per channel
//   - "sketch": grayscale, inverted, Gaussian blur (sigma 21), inverted
//     again and blended 50/50 with the grayscale; the result is luminance-only
//   - "oil_paint": 5x5 per-channel mode filter followed by strong edge
//     enhancement
//   - "cartoon": color posterized to 4 bits, composited over white through
//     the inverted edge map of the grayscale, so edges draw as white lines
//     over flat color
func ArtEffect(src *Buffer, effectType string) (*Buffer, error) {
	switch effectType {
	case ArtPoster:
		return posterize(src.Convert(src.colorMode()), posterBits), nil
	case ArtSketch:
		return sketch(src), nil
	case ArtOilPaint:
		return edgeEnhanceMore(modeFilter(src, oilPaintWindow)), nil
	case ArtCartoon:
		return cartoon(src), nil
	}
	return nil, fmt.Errorf("%w: unknown art effect %q (want %q, %q, %q or %q)",
		ErrInvalidParameter, effectType, ArtPoster, ArtSketch, ArtOilPaint, ArtCartoon)
}

func sketch(src *Buffer) *Buffer {
	gray := Grayscale(src)
	blurred := fromNRGBA(imaging.Blur(Invert(gray).NRGBA(), sketchBlurSigma), ModeL)
	dodge := Invert(blurred)

	out := gray.Clone()
	for i := range out.Pix {
		out.Pix[i] = clampByte(float64(gray.Pix[i])*(1-sketchBlend) + float64(dodge.Pix[i])*sketchBlend)
	}
	return out
}

func cartoon(src *Buffer) *Buffer {
	mask := Invert(findEdges(Grayscale(src)))
	out := posterize(src.Convert(src.colorMode()), cartoonBits)
	ch := out.Channels()
	for p, m := range mask.Pix {
		wm := float64(m) / 255
		for c := 0; c < 3; c++ {
			i := p*ch + c
			out.Pix[i] = clampByte(math.FMA(float64(out.Pix[i]), wm, 255*(1-wm)))
		}
	}
	return out
}
