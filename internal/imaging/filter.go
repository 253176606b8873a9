package imaging

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// Blur types accepted by Blur.
const (
	BlurGaussian = "gaussian"
	BlurBox      = "box"
	BlurMotion   = "motion"
)

// Edge detection methods accepted by EdgeDetect.
const (
	EdgeDefault = "default"
	EdgeEnhance = "enhance"
	EdgeContour = "contour"
	EdgeCanny   = "canny"
)

// 3x3 kernels, row-major.
var (
	findEdgesKernel = []float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
	edgeEnhanceMoreKernel = []float32{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}
	contourKernel = []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
	embossKernel = []float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}
)

// Bias added after the offset kernels.
const (
	contourBias = 255
	embossBias  = 128
)

// Blur smooths the image.
//
//   - "gaussian": Gaussian blur with standard deviation radius
//   - "box": mean over a square window of the given radius
//   - "motion": horizontal streak averaging max(1, int(radius)) pixels
//
// Alpha is never changed.
func Blur(src *Buffer, radius float64, blurType string) (*Buffer, error) {
	work := src.Convert(src.workingMode())
	switch blurType {
	case BlurGaussian:
		return withColorFrom(imaging.Blur(opaqueNRGBA(work), radius), work), nil
	case BlurBox:
		return withColorFrom(blur.Box(opaqueNRGBA(work), radius), work), nil
	case BlurMotion:
		n := int(radius)
		if n <= 1 {
			return work.Clone(), nil
		}
		k := convolution.NewKernel(n, 1)
		for i := range k.Matrix {
			k.Matrix[i] = 1 / float64(n)
		}
		return withColorFrom(convolution.Convolve(opaqueNRGBA(work), k, &convolution.Options{KeepAlpha: true}), work), nil
	}
	return nil, fmt.Errorf("%w: unknown blur type %q (want %q, %q or %q)",
		ErrInvalidParameter, blurType, BlurGaussian, BlurBox, BlurMotion)
}

// Sharpen is Sharpness under the name the request catalogue uses.
func Sharpen(src *Buffer, factor float64) *Buffer {
	return Sharpness(src, factor)
}

// EdgeDetect highlights edges.
//
//   - "default": 3x3 find-edges kernel; flat areas go black
//   - "enhance": strong edge-enhancement kernel; the image stays recognizable
//   - "contour": find-edges kernel offset by 255; flat areas go white, edges dark
//   - "canny": Canny detector producing a binary luminance edge map
func EdgeDetect(src *Buffer, method string) (*Buffer, error) {
	switch method {
	case EdgeDefault:
		return findEdges(src), nil
	case EdgeEnhance:
		return edgeEnhanceMore(src), nil
	case EdgeContour:
		return convolveBiased(src, contourKernel, contourBias), nil
	case EdgeCanny:
		return cannyEdges(src, cannyLow, cannyHigh), nil
	}
	return nil, fmt.Errorf("%w: unknown edge detection method %q (want %q, %q, %q or %q)",
		ErrInvalidParameter, method, EdgeDefault, EdgeEnhance, EdgeContour, EdgeCanny)
}

// Emboss renders the image as a relief lit from the top left, centered on
// mid-gray.
func Emboss(src *Buffer) *Buffer {
	return convolveBiased(src, embossKernel, embossBias)
}

func findEdges(src *Buffer) *Buffer {
	work := src.Convert(src.workingMode())
	return convolveColor(work, gift.Convolution(findEdgesKernel, false, false, false, 0))
}

func edgeEnhanceMore(src *Buffer) *Buffer {
	work := src.Convert(src.workingMode())
	return convolveColor(work, gift.Convolution(edgeEnhanceMoreKernel, false, false, false, 0))
}

// convolveBiased applies a 3x3 kernel followed by a constant bias, which
// gift's convolution does not express on the 0-255 scale.
func convolveBiased(src *Buffer, kernel []float64, bias float64) *Buffer {
	work := src.Convert(src.workingMode())
	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, kernel)
	out := convolution.Convolve(opaqueNRGBA(work), k, &convolution.Options{Bias: bias, KeepAlpha: true})
	return withColorFrom(out, work)
}

// modeFilter replaces each color sample with the most frequent value of
// that channel in the size x size window around it (clipped at the image
// edges). Ties go to the lowest value; when no value occurs more than
// twice the sample is kept. Alpha is kept.
func modeFilter(src *Buffer, size int) *Buffer {
	work := src.Convert(src.workingMode())
	out := work.Clone()
	ch := work.Channels()
	cc := colorChannels(work.Mode)
	r := size / 2

	var hist [256]int
	for y := 0; y < work.Height; y++ {
		y0, y1 := clamp(y-r, 0, work.Height-1), clamp(y+r, 0, work.Height-1)
		for x := 0; x < work.Width; x++ {
			x0, x1 := clamp(x-r, 0, work.Width-1), clamp(x+r, 0, work.Width-1)
			for c := 0; c < cc; c++ {
				for i := range hist {
					hist[i] = 0
				}
				for wy := y0; wy <= y1; wy++ {
					row := wy * work.Width
					for wx := x0; wx <= x1; wx++ {
						hist[work.Pix[(row+wx)*ch+c]]++
					}
				}
				best, count := 0, hist[0]
				for v := 1; v < 256; v++ {
					if hist[v] > count {
						best, count = v, hist[v]
					}
				}
				if count > 2 {
					out.Pix[(y*work.Width+x)*ch+c] = uint8(best)
				}
			}
		}
	}
	return out
}
