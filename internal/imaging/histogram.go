package imaging

// AutoContrast stretches the luminance range of the image to 0-255 after
// discarding cutoff percent of the darkest and of the brightest pixels.
//
// Gray images are stretched directly. Color images are split into luma and
// chroma: only luma is remapped and the chroma of each pixel is kept, so
// hues do not shift. Alpha is never changed.
func AutoContrast(src *Buffer, cutoff float64) *Buffer {
	return remapLuma(src, func(h *[256]int) [256]uint8 {
		return autoContrastLUT(h, cutoff)
	})
}

// Equalize flattens the luminance histogram of the image. Color images
// have their luma channel equalized with chroma kept; alpha is never
// changed.
func Equalize(src *Buffer) *Buffer {
	return remapLuma(src, equalizeLUT)
}

// remapLuma computes the luma histogram of src, builds a lookup table
// from it and applies the table to luma.
//
// For color pixels the new luma is applied as an offset to R, G and B,
// which is a YCbCr round trip with Cb and Cr held fixed.
func remapLuma(src *Buffer, build func(*[256]int) [256]uint8) *Buffer {
	out := src.Convert(src.workingMode())
	ch := out.Channels()
	gray := out.Mode.IsGray()

	var hist [256]int
	for i := 0; i < len(out.Pix); i += ch {
		if gray {
			hist[out.Pix[i]]++
		} else {
			hist[luma(out.Pix[i], out.Pix[i+1], out.Pix[i+2])]++
		}
	}
	lut := build(&hist)

	for i := 0; i < len(out.Pix); i += ch {
		if gray {
			out.Pix[i] = lut[out.Pix[i]]
			continue
		}
		y := luma(out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		delta := float64(lut[y]) - float64(y)
		if delta == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = clampByte(float64(out.Pix[i+c]) + delta)
		}
	}
	return out
}

// autoContrastLUT trims cutoff percent of the histogram mass from each
// end, then maps the remaining [lo, hi] range linearly onto [0, 255].
func autoContrastLUT(hist *[256]int, cutoff float64) [256]uint8 {
	h := *hist
	total := 0
	for _, v := range h {
		total += v
	}

	if cutoff > 0 {
		cut := int(float64(total) * cutoff / 100)
		for lo := 0; lo < 256 && cut > 0; lo++ {
			if cut > h[lo] {
				cut -= h[lo]
				h[lo] = 0
			} else {
				h[lo] -= cut
				cut = 0
			}
		}
		cut = int(float64(total) * cutoff / 100)
		for hi := 255; hi >= 0 && cut > 0; hi-- {
			if cut > h[hi] {
				cut -= h[hi]
				h[hi] = 0
			} else {
				h[hi] -= cut
				cut = 0
			}
		}
	}

	lo, hi := 0, 255
	for lo < 256 && h[lo] == 0 {
		lo++
	}
	for hi >= 0 && h[hi] == 0 {
		hi--
	}

	var lut [256]uint8
	if hi <= lo {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}
	scale := 255.0 / float64(hi-lo)
	offset := -float64(lo) * scale
	for i := range lut {
		v := int(float64(i)*scale + offset)
		lut[i] = uint8(clamp(v, 0, 255))
	}
	return lut
}

// equalizeLUT builds the cumulative-distribution table used by Equalize.
// Histograms with a single occupied bin map to the identity.
func equalizeLUT(hist *[256]int) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(i)
	}

	total, last, used := 0, 0, 0
	for _, v := range hist {
		if v > 0 {
			total += v
			last = v
			used++
		}
	}
	if used <= 1 {
		return lut
	}
	step := (total - last) / 255
	if step == 0 {
		return lut
	}
	n := step / 2
	for i := range lut {
		lut[i] = uint8(clamp(n/step, 0, 255))
		n += hist[i]
	}
	return lut
}
