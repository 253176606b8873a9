package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-ipc/internal/imaging"
	"github.com/ironsheep/image-editor-ipc/internal/session"
)

// bind decodes the request fields over dst and validates the result.
func (s *Server) bind(raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, imaging.ErrInvalidParameter):
			return err
		case errors.As(err, &typeErr):
			return fmt.Errorf("%w: %s must be %s, got %s", imaging.ErrInvalidParameter, typeErr.Field, typeErr.Type, typeErr.Value)
		default:
			return fmt.Errorf("%w: %v", imaging.ErrInvalidParameter, err)
		}
	}

	err := s.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", imaging.ErrInvalidParameter, err)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s", ErrMissingParameter, fe.Field())
		}
	}
	fe := fieldErrs[0]
	return fmt.Errorf("%w: %s fails %s=%s (got %v)", imaging.ErrInvalidParameter, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
}

// colorParam accepts a color as [r, g, b] or as a "#RRGGBB" string.
type colorParam imaging.RGBColor

func (c *colorParam) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}

	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		rgb, err := imaging.ParseHexColor(hex)
		if err != nil {
			return err
		}
		*c = colorParam(rgb)
		return nil
	}

	var parts []float64
	if err := json.Unmarshal(data, &parts); err != nil || len(parts) < 3 || len(parts) > 4 {
		return fmt.Errorf("%w: color must be [r, g, b] or \"#RRGGBB\", got %s", imaging.ErrInvalidParameter, data)
	}
	var rgb [3]uint8
	for i := range rgb {
		v := parts[i]
		if v < 0 || v > 255 || v != math.Trunc(v) {
			return fmt.Errorf("%w: color component %v out of range 0-255", imaging.ErrInvalidParameter, v)
		}
		rgb[i] = uint8(v)
	}
	*c = colorParam{R: rgb[0], G: rgb[1], B: rgb[2]}
	return nil
}

// apply runs op against the session and builds the standard response of a
// mutating action. A message ending in ':' gets the new size appended.
func (s *Server) apply(op session.Operation, message string) (*Response, error) {
	cur, info, err := s.session.Apply(op)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(message, ":") {
		message = fmt.Sprintf("%s %dx%d", message, info.Width, info.Height)
	}
	return s.withPreview(cur, info, message)
}

func (s *Server) withPreview(cur *imaging.Buffer, info session.Info, message string) (*Response, error) {
	encoded, err := s.preview.Encode(cur)
	if err != nil {
		return nil, err
	}
	return &Response{
		Message: message,
		Info:    &info,
		Preview: encoded,
	}, nil
}

// pure lifts a transform that cannot fail into an Operation.
func pure(fn func(*imaging.Buffer) *imaging.Buffer) session.Operation {
	return func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return fn(b), nil
	}
}

// === File Operation Handlers ===

type loadFileArgs struct {
	FilePath string `json:"file_path" validate:"required"`
}

func (s *Server) handleLoadFile(a *loadFileArgs) (*Response, error) {
	dec, err := imaging.LoadFile(a.FilePath)
	if err != nil {
		return nil, err
	}
	return s.load(dec, a.FilePath, "loaded: "+a.FilePath)
}

type loadBase64Args struct {
	Base64 string `json:"base64" validate:"required"`
}

func (s *Server) handleLoadBase64(a *loadBase64Args) (*Response, error) {
	dec, err := imaging.DecodeBase64(a.Base64)
	if err != nil {
		return nil, err
	}
	return s.load(dec, "base64", "loaded image from base64")
}

func (s *Server) load(dec *imaging.Decoded, source, message string) (*Response, error) {
	info := s.session.Load(dec.Buffer, dec.Format, source)
	s.logger.WithFields(logrus.Fields{
		"width":  info.Width,
		"height": info.Height,
		"mode":   info.Mode,
		"format": info.Format,
	}).Infof("image loaded from %s", source)

	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	return s.withPreview(cur, info, message)
}

type saveFileArgs struct {
	OutputPath string `json:"output_path" validate:"required"`
	Quality    int    `json:"quality" validate:"min=1,max=100"`
}

func (s *Server) handleSaveFile(a *saveFileArgs) (*Response, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveFile(cur, a.OutputPath, a.Quality); err != nil {
		return nil, err
	}
	s.logger.WithField("path", a.OutputPath).Info("image saved")
	return &Response{
		Message: "saved to: " + a.OutputPath,
		Path:    a.OutputPath,
	}, nil
}

type getBase64Args struct {
	Format string `json:"format"`
}

func (s *Server) handleGetBase64(a *getBase64Args) (*Response, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	info, err := s.session.Info()
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeBase64(cur, a.Format)
	if err != nil {
		return nil, err
	}
	return &Response{Base64: encoded, Info: &info}, nil
}

func (s *Server) handleGetInfo(*noArgs) (*Response, error) {
	info, err := s.session.Info()
	if err != nil {
		return nil, err
	}
	return &Response{Info: &info}, nil
}

type batchLoadArgs struct {
	FolderPath string `json:"folder_path" validate:"required"`
}

func (s *Server) handleBatchLoad(a *batchLoadArgs) (*Response, error) {
	files, err := imaging.ListImages(a.FolderPath)
	if err != nil {
		return nil, err
	}
	count := len(files)
	return &Response{Files: &files, Count: &count}, nil
}

func (s *Server) handleReset(*noArgs) (*Response, error) {
	cur, info, err := s.session.Reset()
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"width":  info.Width,
		"height": info.Height,
	}).Info("reverted to original image")
	return s.withPreview(cur, info, "reverted to original image")
}

type printArgs struct {
	PrinterName string `json:"printer_name"`
}

func (s *Server) handlePrint(a *printArgs) (*Response, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	if err := imaging.PrintBuffer(s.printer, cur, a.PrinterName); err != nil {
		return nil, err
	}
	return &Response{Message: "print job submitted"}, nil
}

// === Basic Transform Handlers ===

type thumbnailArgs struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

func (s *Server) handleThumbnail(a *thumbnailArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Thumbnail(b, a.MaxWidth, a.MaxHeight)
	}, "thumbnail:")
}

type resizeArgs struct {
	Width      *int `json:"width" validate:"required"`
	Height     *int `json:"height" validate:"required"`
	KeepAspect bool `json:"keep_aspect"`
}

func (s *Server) handleResize(a *resizeArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Resize(b, *a.Width, *a.Height, a.KeepAspect)
	}, "resized:")
}

type rotateArgs struct {
	Angle     *float64   `json:"angle" validate:"required"`
	Expand    bool       `json:"expand"`
	FillColor colorParam `json:"fill_color"`
}

func (s *Server) handleRotate(a *rotateArgs) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.Rotate(b, *a.Angle, a.Expand, imaging.RGBColor(a.FillColor))
	}), fmt.Sprintf("rotated %g degrees", *a.Angle))
}

type cropArgs struct {
	Left   int  `json:"left"`
	Top    int  `json:"top"`
	Right  *int `json:"right" validate:"required"`
	Bottom *int `json:"bottom" validate:"required"`
}

func (s *Server) handleCrop(a *cropArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Crop(b, a.Left, a.Top, *a.Right, *a.Bottom)
	}, "cropped:")
}

type cropCenterArgs struct {
	Width  *int `json:"width" validate:"required"`
	Height *int `json:"height" validate:"required"`
}

func (s *Server) handleCropCenter(a *cropCenterArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.CropCenter(b, *a.Width, *a.Height)
	}, "center cropped:")
}

type flipArgs struct {
	Direction string `json:"direction"`
}

func (s *Server) handleFlip(a *flipArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Flip(b, a.Direction)
	}, fmt.Sprintf("flipped (%s)", a.Direction))
}

// === Color Adjustment Handlers ===

func (s *Server) handleGrayscale(*noArgs) (*Response, error) {
	return s.apply(pure(imaging.Grayscale), "converted to grayscale")
}

type factorArgs struct {
	Factor float64 `json:"factor"`
}

func (s *Server) handleBrightness(a *factorArgs) (*Response, error) {
	return s.enhance(imaging.Brightness, "brightness", a.Factor)
}

func (s *Server) handleContrast(a *factorArgs) (*Response, error) {
	return s.enhance(imaging.Contrast, "contrast", a.Factor)
}

func (s *Server) handleSaturation(a *factorArgs) (*Response, error) {
	return s.enhance(imaging.Saturation, "saturation", a.Factor)
}

func (s *Server) handleSharpen(a *factorArgs) (*Response, error) {
	return s.enhance(imaging.Sharpen, "sharpness", a.Factor)
}

func (s *Server) enhance(fn func(*imaging.Buffer, float64) *imaging.Buffer, what string, factor float64) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return fn(b, factor)
	}), fmt.Sprintf("%s adjusted (factor=%g)", what, factor))
}

type whiteBalanceArgs struct {
	Method string `json:"method"`
}

func (s *Server) handleWhiteBalance(a *whiteBalanceArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.WhiteBalance(b, a.Method)
	}, fmt.Sprintf("white balance applied (%s)", a.Method))
}

type temperatureArgs struct {
	Temperature float64 `json:"temperature"`
}

func (s *Server) handleColorTemperature(a *temperatureArgs) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.ColorTemperature(b, a.Temperature)
	}), fmt.Sprintf("color temperature set (%gK)", a.Temperature))
}

type hueShiftArgs struct {
	Degrees float64 `json:"degrees"`
}

func (s *Server) handleHueShift(a *hueShiftArgs) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.HueShift(b, a.Degrees)
	}), fmt.Sprintf("hue shifted %g degrees", a.Degrees))
}

type autoContrastArgs struct {
	Cutoff float64 `json:"cutoff"`
}

func (s *Server) handleAutoContrast(a *autoContrastArgs) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.AutoContrast(b, a.Cutoff)
	}), "auto contrast applied")
}

func (s *Server) handleEqualize(*noArgs) (*Response, error) {
	return s.apply(pure(imaging.Equalize), "histogram equalized")
}

func (s *Server) handleInvert(*noArgs) (*Response, error) {
	return s.apply(pure(imaging.Invert), "colors inverted")
}

type sepiaArgs struct {
	Intensity float64 `json:"intensity"`
}

func (s *Server) handleSepia(a *sepiaArgs) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.Sepia(b, a.Intensity)
	}), fmt.Sprintf("sepia applied (intensity=%g)", a.Intensity))
}

// === Filter and Effect Handlers ===

type blurArgs struct {
	Radius   float64 `json:"radius"`
	BlurType string  `json:"blur_type"`
}

func (s *Server) handleBlur(a *blurArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Blur(b, a.Radius, a.BlurType)
	}, fmt.Sprintf("blurred (%s, radius=%g)", a.BlurType, a.Radius))
}

type edgeDetectArgs struct {
	Method string `json:"method"`
}

func (s *Server) handleEdgeDetect(a *edgeDetectArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.EdgeDetect(b, a.Method)
	}, fmt.Sprintf("edges detected (%s)", a.Method))
}

func (s *Server) handleEmboss(*noArgs) (*Response, error) {
	return s.apply(pure(imaging.Emboss), "embossed")
}

type pixelateArgs struct {
	PixelSize int `json:"pixel_size"`
}

func (s *Server) handlePixelate(a *pixelateArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.Pixelate(b, a.PixelSize)
	}, fmt.Sprintf("pixelated (pixel_size=%d)", a.PixelSize))
}

type vignetteArgs struct {
	Strength float64 `json:"strength"`
}

func (s *Server) handleVignette(a *vignetteArgs) (*Response, error) {
	return s.apply(pure(func(b *imaging.Buffer) *imaging.Buffer {
		return imaging.Vignette(b, a.Strength)
	}), fmt.Sprintf("vignette applied (strength=%g)", a.Strength))
}

type artEffectArgs struct {
	EffectType string `json:"effect_type" validate:"required"`
}

func (s *Server) handleArtEffect(a *artEffectArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.ArtEffect(b, a.EffectType)
	}, fmt.Sprintf("art effect applied (%s)", a.EffectType))
}

type borderArgs struct {
	BorderWidth int        `json:"border_width"`
	Color       colorParam `json:"color"`
}

func (s *Server) handleAddBorder(a *borderArgs) (*Response, error) {
	return s.apply(func(b *imaging.Buffer) (*imaging.Buffer, error) {
		return imaging.AddBorder(b, a.BorderWidth, imaging.RGBColor(a.Color))
	}, fmt.Sprintf("border added (width=%d)", a.BorderWidth))
}

// === System Handlers ===

func (s *Server) handleListActions(*noArgs) (*Response, error) {
	return &Response{Actions: s.Catalogue()}, nil
}

func (s *Server) handlePing(*noArgs) (*Response, error) {
	return &Response{Message: "pong", Status: "running"}, nil
}
