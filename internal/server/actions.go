package server

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Action categories, as reported by list_actions.
const (
	categoryFile   = "file_operations"
	categoryBasic  = "basic_transforms"
	categoryColor  = "color_adjustments"
	categoryFilter = "filters_effects"
	categorySystem = "system"
)

// ActionInfo describes one action in the list_actions catalogue. Optional
// parameters carry a trailing "?".
type ActionInfo struct {
	Params []string `json:"params"`
	Desc   string   `json:"desc"`
}

// action binds a request name to its typed handler.
type action struct {
	name        string
	category    string
	description string
	params      []string
	run         func(s *Server, raw json.RawMessage) (*Response, error)
}

// newAction builds a table entry. defaults holds the value of every
// optional parameter; it is copied for each request before the request
// fields are decoded over it. The parameter list is read from T's json
// tags so the catalogue always matches what the handler accepts.
func newAction[T any](name, category, description string, defaults T, handle func(*Server, *T) (*Response, error)) action {
	return action{
		name:        name,
		category:    category,
		description: description,
		params:      paramNames(reflect.TypeOf(defaults)),
		run: func(s *Server, raw json.RawMessage) (*Response, error) {
			args := defaults
			if err := s.bind(raw, &args); err != nil {
				return nil, err
			}
			return handle(s, &args)
		},
	}
}

func paramNames(t reflect.Type) []string {
	params := []string{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		if !hasRule(f.Tag.Get("validate"), "required") {
			name += "?"
		}
		params = append(params, name)
	}
	return params
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

type noArgs struct{}

func actionTable() []action {
	return []action{
		// File operations
		newAction("load_file", categoryFile, "Load an image file", loadFileArgs{}, (*Server).handleLoadFile),
		newAction("load_base64", categoryFile, "Load an image from base64", loadBase64Args{}, (*Server).handleLoadBase64),
		newAction("save_file", categoryFile, "Save the image", saveFileArgs{Quality: 95}, (*Server).handleSaveFile),
		newAction("get_base64", categoryFile, "Get the image as base64", getBase64Args{Format: "PNG"}, (*Server).handleGetBase64),
		newAction("get_info", categoryFile, "Get image information", noArgs{}, (*Server).handleGetInfo),
		newAction("batch_load", categoryFile, "List the images in a folder", batchLoadArgs{}, (*Server).handleBatchLoad),
		newAction("reset", categoryFile, "Revert to the original image", noArgs{}, (*Server).handleReset),
		newAction("print_file", categoryFile, "Print the image", printArgs{}, (*Server).handlePrint),

		// Basic transforms
		newAction("thumbnail", categoryBasic, "Create a thumbnail", thumbnailArgs{MaxWidth: 128, MaxHeight: 128}, (*Server).handleThumbnail),
		newAction("resize", categoryBasic, "Resize the image", resizeArgs{}, (*Server).handleResize),
		newAction("rotate", categoryBasic, "Rotate the image counter-clockwise", rotateArgs{Expand: true, FillColor: colorParam{255, 255, 255}}, (*Server).handleRotate),
		newAction("crop", categoryBasic, "Crop the image", cropArgs{}, (*Server).handleCrop),
		newAction("crop_center", categoryBasic, "Crop around the center", cropCenterArgs{}, (*Server).handleCropCenter),
		newAction("flip", categoryBasic, "Flip (horizontal/vertical)", flipArgs{Direction: "horizontal"}, (*Server).handleFlip),

		// Color adjustments
		newAction("grayscale", categoryColor, "Convert to grayscale", noArgs{}, (*Server).handleGrayscale),
		newAction("brightness", categoryColor, "Adjust brightness", factorArgs{Factor: 1}, (*Server).handleBrightness),
		newAction("contrast", categoryColor, "Adjust contrast", factorArgs{Factor: 1}, (*Server).handleContrast),
		newAction("saturation", categoryColor, "Adjust saturation", factorArgs{Factor: 1}, (*Server).handleSaturation),
		newAction("white_balance", categoryColor, "White balance (auto/gray_world)", whiteBalanceArgs{Method: "auto"}, (*Server).handleWhiteBalance),
		newAction("color_temperature", categoryColor, "Color temperature (2000-10000K)", temperatureArgs{Temperature: 6500}, (*Server).handleColorTemperature),
		newAction("hue_shift", categoryColor, "Hue shift (0-360)", hueShiftArgs{}, (*Server).handleHueShift),
		newAction("auto_contrast", categoryColor, "Auto contrast", autoContrastArgs{}, (*Server).handleAutoContrast),
		newAction("equalize", categoryColor, "Histogram equalization", noArgs{}, (*Server).handleEqualize),
		newAction("invert", categoryColor, "Invert colors", noArgs{}, (*Server).handleInvert),
		newAction("sepia", categoryColor, "Sepia tone", sepiaArgs{Intensity: 1}, (*Server).handleSepia),

		// Filters and effects
		newAction("blur", categoryFilter, "Blur (gaussian/box/motion)", blurArgs{Radius: 2, BlurType: "gaussian"}, (*Server).handleBlur),
		newAction("sharpen", categoryFilter, "Sharpen", factorArgs{Factor: 1}, (*Server).handleSharpen),
		newAction("edge_detect", categoryFilter, "Edge detection (default/enhance/contour/canny)", edgeDetectArgs{Method: "default"}, (*Server).handleEdgeDetect),
		newAction("emboss", categoryFilter, "Emboss", noArgs{}, (*Server).handleEmboss),
		newAction("pixelate", categoryFilter, "Pixelate", pixelateArgs{PixelSize: 10}, (*Server).handlePixelate),
		newAction("vignette", categoryFilter, "Vignette", vignetteArgs{Strength: 0.5}, (*Server).handleVignette),
		newAction("art_effect", categoryFilter, "Art effect (poster/sketch/oil_paint/cartoon)", artEffectArgs{}, (*Server).handleArtEffect),
		newAction("add_border", categoryFilter, "Add a border", borderArgs{BorderWidth: 10}, (*Server).handleAddBorder),

		// System
		newAction("list_actions", categorySystem, "List the available actions", noArgs{}, (*Server).handleListActions),
		newAction("ping", categorySystem, "Health check", noArgs{}, (*Server).handlePing),
	}
}

// Catalogue groups every action by category.
func (s *Server) Catalogue() map[string]map[string]ActionInfo {
	out := make(map[string]map[string]ActionInfo)
	for name, a := range s.actions {
		if out[a.category] == nil {
			out[a.category] = make(map[string]ActionInfo)
		}
		out[a.category][name] = ActionInfo{Params: a.params, Desc: a.description}
	}
	return out
}
