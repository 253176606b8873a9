package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// RGBColor represents an RGB color with 8-bit components.
//
// It is the type of every fill/border color parameter. Each component
// ranges from 0 to 255.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// White is the opaque background used when alpha is composited away.
var White = RGBColor{255, 255, 255}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGBColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Luma returns the perceptual luminance of the color.
func (c RGBColor) Luma() uint8 {
	return luma(c.R, c.G, c.B)
}

// samples returns the color laid out as the color channels of mode,
// with alpha (if any) fully opaque.
func (c RGBColor) samples(mode Mode) []uint8 {
	switch mode {
	case ModeL:
		return []uint8{c.Luma()}
	case ModeLA:
		return []uint8{c.Luma(), 255}
	case ModeRGB:
		return []uint8{c.R, c.G, c.B}
	default:
		return []uint8{c.R, c.G, c.B, 255}
	}
}

// ParseHexColor parses a hex color string like "#FF8040" or "FF8040".
//
// A trailing alpha byte ("#FF804080") is accepted and ignored: fill colors
// are always painted opaque.
func ParseHexColor(hex string) (RGBColor, error) {
	if len(hex) == 0 {
		return RGBColor{}, fmt.Errorf("%w: empty color string", ErrInvalidParameter)
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return RGBColor{}, fmt.Errorf("%w: invalid hex color %q", ErrInvalidParameter, hex)
		}
		return RGBColor{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return RGBColor{}, fmt.Errorf("%w: invalid hex color %q", ErrInvalidParameter, hex)
		}
		return RGBColor{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8)}, nil
	}
	return RGBColor{}, fmt.Errorf("%w: invalid hex color length %q", ErrInvalidParameter, hex)
}

// luma converts 8-bit RGB to luminance using the ITU-R 601-2 weights
// (299/587/114 per mille), rounded to the nearest integer.
func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// lumaFloat is luma without quantization.
func lumaFloat(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// overWhite composites a sample with the given alpha onto opaque white.
func overWhite(v, a uint8) uint8 {
	return uint8((uint32(v)*uint32(a) + 255*(255-uint32(a)) + 127) / 255)
}

// clampByte rounds v to the nearest integer and clamps it to 0-255.
func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
