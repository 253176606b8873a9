// Package server implements the request loop of the image editor backend.
//
// The server reads one JSON object per line on stdin and writes exactly one
// JSON object per line on stdout, in order. Diagnostics go to stderr through
// logrus; stdout carries nothing but responses.
//
// # Protocol
//
// A request names its action and carries that action's parameters as
// sibling fields:
//
//	{"action": "resize", "width": 500, "height": 500, "keep_aspect": true}
//
// Every response has a boolean "success". Successful responses add any of
// message, info, preview, base64, path, files, count, actions and status.
// Failures carry only "error":
//
//	{"success": false, "error": "no image loaded"}
//
// # Actions
//
// The actions are organized into categories, and list_actions reports them
// from the same table the router dispatches on:
//
// File operations:
//   - load_file, load_base64: Replace the session image
//   - save_file, get_base64: Encode the full-resolution image
//   - get_info, batch_load, reset, print_file
//
// Basic transforms:
//   - thumbnail, resize, rotate, crop, crop_center, flip
//
// Color adjustments:
//   - grayscale, brightness, contrast, saturation, white_balance,
//     color_temperature, hue_shift, auto_contrast, equalize, invert, sepia
//
// Filters and effects:
//   - blur, sharpen, edge_detect, emboss, pixelate, vignette, art_effect,
//     add_border
//
// System:
//   - list_actions, ping
//
// Every action that changes the image answers with the new image info and
// a JPEG preview no larger than the configured bound.
//
// # Error Handling
//
// Parameters are decoded into typed structs pre-filled with defaults and
// checked with go-playground/validator. A missing required field, a bad
// value, an image-less session and storage failures all produce a failure
// response; none of them stop the loop. Panics inside a handler are
// recovered, logged with their stack and reported as an internal error.
//
// # Usage
//
//	srv := server.New(server.Options{Logger: logger})
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
