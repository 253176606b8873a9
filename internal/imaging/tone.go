package imaging

import (
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// White balance methods accepted by WhiteBalance. Both use the gray-world
// assumption.
const (
	WhiteBalanceAuto      = "auto"
	WhiteBalanceGrayWorld = "gray_world"
)

// ReferenceTemperature is the color temperature, in kelvin, that
// ColorTemperature treats as neutral.
const ReferenceTemperature = 6500

// grayWorldEpsilon keeps the gray-world gain finite for empty channels.
const grayWorldEpsilon = 1e-6

// sepiaMatrix maps (R, G, B) onto the sepia tone.
var sepiaMatrix = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// Grayscale converts the image to single-channel luminance, compositing
// any alpha over white.
func Grayscale(src *Buffer) *Buffer {
	return src.Convert(ModeL)
}

// Invert replaces every color sample v with 255-v. Alpha is kept.
func Invert(src *Buffer) *Buffer {
	work := src.Convert(src.workingMode())
	if work.Mode == ModeRGBA {
		return fromNRGBA(imaging.Invert(work.NRGBA()), ModeRGBA)
	}
	out := work.Clone()
	ch := out.Channels()
	cc := colorChannels(out.Mode)
	for i := 0; i < len(out.Pix); i += ch {
		for c := 0; c < cc; c++ {
			out.Pix[i+c] = 255 - out.Pix[i+c]
		}
	}
	return out
}

// WhiteBalance equalizes the channel means under the gray-world
// assumption: each channel is scaled by avg/(mean+epsilon) where avg is
// the mean of the three channel means.
func WhiteBalance(src *Buffer, method string) (*Buffer, error) {
	if method != WhiteBalanceAuto && method != WhiteBalanceGrayWorld {
		return nil, fmt.Errorf("%w: unknown white balance method %q (want %q or %q)",
			ErrInvalidParameter, method, WhiteBalanceAuto, WhiteBalanceGrayWorld)
	}
	out := src.Convert(src.colorMode())
	ch := out.Channels()
	n := out.Width * out.Height

	var sums [3]float64
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			sums[c] += float64(out.Pix[i*ch+c])
		}
	}
	var means [3]float64
	for c := range sums {
		means[c] = sums[c] / float64(n)
	}
	avg := (means[0] + means[1] + means[2]) / 3

	var gains [3]float64
	for c := range gains {
		gains[c] = avg / (means[c] + grayWorldEpsilon)
	}
	scaleChannels(out, gains)
	return out, nil
}

// ColorTemperature warms (below 6500K) or cools (above 6500K) the image
// by scaling red and blue in opposite directions. The warm adjustment is
// proportional to (6500-T)/4500 and capped at 20%; the cool adjustment is
// proportional to (T-6500)/3500.
func ColorTemperature(src *Buffer, temperature float64) *Buffer {
	out := src.Convert(src.colorMode())
	var red, blue float64
	if temperature < ReferenceTemperature {
		f := math.Min((ReferenceTemperature-temperature)/4500, 1)
		red, blue = 1+f*0.2, 1-f*0.2
	} else {
		f := (temperature - ReferenceTemperature) / 3500
		red, blue = 1-f*0.2, 1+f*0.2
	}
	scaleChannels(out, [3]float64{red, 1, blue})
	return out
}

// scaleChannels multiplies the R, G and B samples of b in place.
func scaleChannels(b *Buffer, gains [3]float64) {
	ch := b.Channels()
	for i := 0; i < len(b.Pix); i += ch {
		for c := 0; c < 3; c++ {
			b.Pix[i+c] = clampByte(float64(b.Pix[i+c]) * gains[c])
		}
	}
}

// HueShift rotates the hue of every pixel by degrees on the HSV color
// wheel, keeping saturation and value.
func HueShift(src *Buffer, degrees float64) *Buffer {
	out := src.Convert(src.colorMode())
	ch := out.Channels()
	for i := 0; i < len(out.Pix); i += ch {
		c := colorful.Color{
			R: float64(out.Pix[i]) / 255,
			G: float64(out.Pix[i+1]) / 255,
			B: float64(out.Pix[i+2]) / 255,
		}
		h, s, v := c.Hsv()
		h = math.Mod(h+degrees, 360)
		if h < 0 {
			h += 360
		}
		if h >= 360 {
			h = 0
		}
		rc := colorful.Hsv(h, s, v)
		out.Pix[i] = clampByte(rc.R * 255)
		out.Pix[i+1] = clampByte(rc.G * 255)
		out.Pix[i+2] = clampByte(rc.B * 255)
	}
	return out
}

// Sepia blends each pixel with its sepia projection: intensity 0 returns
// the source, 1 the full sepia tone.
func Sepia(src *Buffer, intensity float64) *Buffer {
	out := src.Convert(src.colorMode())
	ch := out.Channels()
	for i := 0; i < len(out.Pix); i += ch {
		px := [3]float64{float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2])}
		for c := 0; c < 3; c++ {
			m := sepiaMatrix[c]
			toned := m[0]*px[0] + m[1]*px[1] + m[2]*px[2]
			out.Pix[i+c] = clampByte(px[c]*(1-intensity) + toned*intensity)
		}
	}
	return out
}

// posterize keeps the top bits of every color sample.
func posterize(src *Buffer, bits uint) *Buffer {
	out := src.Clone()
	mask := ^uint8(0xFF >> bits)
	ch := out.Channels()
	cc := colorChannels(out.Mode)
	for i := 0; i < len(out.Pix); i += ch {
		for c := 0; c < cc; c++ {
			out.Pix[i+c] &= mask
		}
	}
	return out
}
