// Package preview renders the reduced-size image sent back to the UI after
// every operation.
//
// Previews are always JPEG at a fixed quality, whatever the source format,
// with any alpha composited onto white. They are never larger than
// MaxDimension on either side.
package preview

import (
	"bytes"
	"encoding/base64"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-ipc/internal/imaging"
)

const (
	// DefaultMaxDimension bounds the preview's width and height.
	DefaultMaxDimension = 1024

	// Quality is the JPEG quality of every preview. It does not follow the
	// quality requested for saved files.
	Quality = 75
)

// Encoder builds previews.
type Encoder struct {
	MaxDimension int
	logger       *logrus.Logger
}

// New creates an encoder bounded by maxDimension. A non-positive bound
// selects DefaultMaxDimension.
func New(maxDimension int, logger *logrus.Logger) *Encoder {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Encoder{MaxDimension: maxDimension, logger: logger}
}

// Downscale shrinks b so that neither side exceeds the bound, scaling by
// min(bound/W, bound/H) with the same Lanczos kernel as Resize. Buffers
// already within the bound are returned as is.
func (e *Encoder) Downscale(b *imaging.Buffer) *imaging.Buffer {
	bound := e.MaxDimension
	if b.Width <= bound && b.Height <= bound {
		return b
	}
	w, h := imaging.FitDimensions(b.Width, b.Height, bound, bound)
	small, err := imaging.Resize(b, w, h, false)
	if err != nil {
		// FitDimensions never yields a non-positive size
		return b
	}
	e.logger.WithFields(logrus.Fields{
		"width":  b.Width,
		"height": b.Height,
	}).Debugf("preview downscaled to %dx%d", w, h)
	return small
}

// Encode downscales b, flattens it onto white and returns the base64 of
// its JPEG encoding.
func (e *Encoder) Encode(b *imaging.Buffer) (string, error) {
	flat := imaging.Flatten(e.Downscale(b))

	var buf bytes.Buffer
	if err := imaging.EncodeJPEG(&buf, flat, Quality); err != nil {
		return "", err
	}
	e.logger.WithFields(logrus.Fields{
		"width":  flat.Width,
		"height": flat.Height,
		"bytes":  buf.Len(),
	}).Debug("preview encoded")
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
