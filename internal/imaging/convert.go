package imaging

import (
	"image"
	"image/color/palette"
	"image/draw"
)

// Convert returns a copy of the buffer in the requested mode.
//
// Conversions that drop alpha composite over opaque white using alpha as
// the blend weight. Conversions from color to luminance use the fixed
// 299/587/114 luma weights. Palette images are expanded through their
// palette first. Converting into ModeP quantizes onto the Plan 9 palette
// with Floyd-Steinberg dithering.
func (b *Buffer) Convert(mode Mode) *Buffer {
	if mode == b.Mode {
		return b.Clone()
	}
	if b.Mode == ModeP {
		return b.expandPalette().Convert(mode)
	}
	if mode == ModeP {
		return b.quantize()
	}

	out := newBuffer(b.Width, b.Height, mode)
	n := b.Width * b.Height
	sc, dc := b.Channels(), mode.Channels()
	for i := 0; i < n; i++ {
		r, g, bl, a := b.rgbaAt(i * sc)
		if !mode.HasAlpha() && a != 255 {
			r, g, bl = overWhite(r, a), overWhite(g, a), overWhite(bl, a)
		}
		di := i * dc
		switch mode {
		case ModeL:
			out.Pix[di] = grayOf(b.Mode, r, g, bl)
		case ModeLA:
			out.Pix[di], out.Pix[di+1] = grayOf(b.Mode, r, g, bl), a
		case ModeRGB:
			out.Pix[di], out.Pix[di+1], out.Pix[di+2] = r, g, bl
		case ModeRGBA:
			out.Pix[di], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = r, g, bl, a
		}
	}
	return out
}

// grayOf returns the luminance of a pixel, short-circuiting sources that
// are already gray so their samples survive unchanged.
func grayOf(src Mode, r, g, b uint8) uint8 {
	if src.IsGray() {
		return r
	}
	return luma(r, g, b)
}

// rgbaAt reads the pixel whose first sample is at Pix[i] as RGBA.
// Not valid for ModeP.
func (b *Buffer) rgbaAt(i int) (r, g, bl, a uint8) {
	switch b.Mode {
	case ModeL:
		v := b.Pix[i]
		return v, v, v, 255
	case ModeLA:
		v := b.Pix[i]
		return v, v, v, b.Pix[i+1]
	case ModeRGB:
		return b.Pix[i], b.Pix[i+1], b.Pix[i+2], 255
	default:
		return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
	}
}

// expandPalette resolves palette indices into RGB, or RGBA when the
// palette carries transparency.
func (b *Buffer) expandPalette() *Buffer {
	mode := ModeRGB
	if b.paletteHasAlpha() {
		mode = ModeRGBA
	}
	return fromNRGBA(b.NRGBA(), mode)
}

// quantize maps the buffer onto the Plan 9 palette.
func (b *Buffer) quantize() *Buffer {
	src := b.NRGBA()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
	return FromImage(dst)
}

// workingMode is the mode pixel operations run in for this buffer:
// palette images expand to RGB/RGBA, everything else is kept.
func (b *Buffer) workingMode() Mode {
	if b.Mode != ModeP {
		return b.Mode
	}
	if b.paletteHasAlpha() {
		return ModeRGBA
	}
	return ModeRGB
}

// colorMode is the mode color-only operations produce for this buffer:
// always three color channels, alpha kept whenever the source has it.
func (b *Buffer) colorMode() Mode {
	if b.workingMode().HasAlpha() {
		return ModeRGBA
	}
	return ModeRGB
}

// copyAlpha overwrites dst's alpha channel with src's. Both buffers must
// have the same dimensions and dst must carry alpha. A source without alpha
// counts as fully opaque.
func copyAlpha(dst, src *Buffer) {
	if !dst.Mode.HasAlpha() {
		return
	}
	if src.Mode == ModeP {
		src = src.expandPalette()
	}
	n := dst.Width * dst.Height
	dc, sc := dst.Channels(), src.Channels()
	for i := 0; i < n; i++ {
		a := uint8(255)
		if src.Mode.HasAlpha() {
			a = src.Pix[i*sc+sc-1]
		}
		dst.Pix[i*dc+dc-1] = a
	}
}
