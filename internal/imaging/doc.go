// Package imaging holds the pixel buffer type and every image operation the
// editor exposes.
//
// A Buffer is an 8-bit raster in one of five modes (L, LA, RGB, RGBA, P).
// Each operation takes a source buffer and its parameters and returns a new
// buffer; sources are never modified, so a caller may keep any buffer it
// has been handed as a stable snapshot.
//
// Geometric work (resize, rotate, flips, Gaussian blur) is delegated to
// github.com/disintegration/imaging, fixed convolution kernels to
// github.com/disintegration/gift and github.com/anthonynsimon/bild, and HSV
// conversion to github.com/lucasb-eyer/go-colorful. The gray-world white
// balance, sepia matrix, vignette mask, color temperature scaling and the
// luma-only histogram operations are implemented here directly.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Boxes are given as
// (left, top, right, bottom) with the right and bottom edges exclusive.
//
// # Alpha
//
// Operations that only change color never alter the alpha channel.
// Conversions that drop alpha composite onto opaque white.
//
// # Error Handling
//
// Failures wrap one of ErrInvalidParameter, ErrNotFound or ErrIOFailure;
// classify them with errors.Is.
package imaging
