package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-ipc/internal/imaging"
	"github.com/ironsheep/image-editor-ipc/internal/preview"
	"github.com/ironsheep/image-editor-ipc/internal/session"
)

// Request-level error kinds. The remaining kinds come from the imaging and
// session packages.
var (
	// ErrMissingParameter reports a required request field that is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrMalformedRequest reports a request line that is not a JSON object.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrRequestTooLarge reports a request line longer than the configured
	// limit. The line is discarded.
	ErrRequestTooLarge = errors.New("request too large")
)

// DefaultMaxRequestBytes is the request size limit used when Options gives none.
const DefaultMaxRequestBytes = 512 << 20

// Server owns one editing session and answers requests against it.
type Server struct {
	session  *session.Session
	preview  *preview.Encoder
	printer  imaging.Printer
	logger   *logrus.Logger
	validate *validator.Validate
	actions  map[string]action
	maxBytes int
}

// Options configures a Server. Zero values select defaults.
type Options struct {
	Logger          *logrus.Logger
	Preview         *preview.Encoder
	Printer         imaging.Printer
	MaxRequestBytes int
}

// Response is the reply to one request. Success is always present; the
// other fields appear only when set.
type Response struct {
	Success bool                             `json:"success"`
	Message string                           `json:"message,omitempty"`
	Info    *session.Info                    `json:"info,omitempty"`
	Preview string                           `json:"preview,omitempty"`
	Base64  string                           `json:"base64,omitempty"`
	Path    string                           `json:"path,omitempty"`
	Files   *[]string                        `json:"files,omitempty"`
	Count   *int                             `json:"count,omitempty"`
	Actions map[string]map[string]ActionInfo `json:"actions,omitempty"`
	Status  string                           `json:"status,omitempty"`
	Error   string                           `json:"error,omitempty"`
}

// New creates a server with an Empty session.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	enc := opts.Preview
	if enc == nil {
		enc = preview.New(preview.DefaultMaxDimension, logger)
	}
	printer := opts.Printer
	if printer == nil {
		printer = imaging.LPRPrinter{}
	}
	maxBytes := opts.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBytes
	}

	s := &Server{
		session:  session.New(),
		preview:  enc,
		printer:  printer,
		logger:   logger,
		validate: newValidator(),
		maxBytes: maxBytes,
	}
	s.actions = make(map[string]action)
	for _, a := range actionTable() {
		s.actions[a.name] = a
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	// report request field names rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Run serves requests from stdin, writing responses to stdout, until stdin
// is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON requests from in and writes exactly one
// JSON response line to out per request, in order. It returns nil when in
// reaches EOF. A bad request produces a failure response and the loop
// continues.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	reader := bufio.NewReaderSize(in, 64*1024)
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)

	s.logger.Info("image editor ready")
	for {
		line, err := readLine(reader, s.maxBytes)
		if errors.Is(err, io.EOF) {
			s.logger.Info("input closed, shutting down")
			return nil
		}

		var resp *Response
		switch {
		case errors.Is(err, ErrRequestTooLarge):
			s.logger.WithField("limit", s.maxBytes).Warn("request discarded")
			resp = failure(fmt.Errorf("%w: limit is %d bytes", err, s.maxBytes))
		case err != nil:
			return fmt.Errorf("read request: %w", err)
		default:
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			resp = s.Handle(line)
		}

		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed entirely and reported as ErrRequestTooLarge.
func readLine(r *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	over := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !over {
			if len(line)+len(chunk) > limit+1 {
				over, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && (len(line) > 0 || over):
			// last line has no terminator
		case err != nil:
			return nil, err
		}
		if over {
			return nil, ErrRequestTooLarge
		}
		return bytes.TrimRight(line, "\r\n"), nil
	}
}

// Handle answers a single request line.
func (s *Server) Handle(line []byte) (resp *Response) {
	var envelope struct {
		Action *string `json:"action"`
	}
	if err := json.Unmarshal(line, &envelope); err != nil {
		s.logger.WithFields(logrus.Fields{
			"kind":  "MalformedRequest",
			"bytes": len(line),
		}).Warnf("failed to parse request: %v", err)
		return failure(fmt.Errorf("%w: %v", ErrMalformedRequest, err))
	}
	if envelope.Action == nil || *envelope.Action == "" {
		return s.fail("", fmt.Errorf("%w: action", ErrMissingParameter))
	}
	name := *envelope.Action

	act, ok := s.actions[name]
	if !ok {
		return s.fail(name, fmt.Errorf("%w: unknown action %q", imaging.ErrInvalidParameter, name))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"action": name,
				"kind":   "Internal",
			}).Errorf("panic handling request: %v\n%s", r, debug.Stack())
			resp = failure(fmt.Errorf("internal error: %v", r))
		}
	}()

	s.logger.WithField("action", name).Debug("handling request")
	resp, err := act.run(s, line)
	if err != nil {
		return s.fail(name, err)
	}
	resp.Success = true
	return resp
}

func (s *Server) fail(action string, err error) *Response {
	s.logger.WithFields(logrus.Fields{
		"action": action,
		"kind":   errorKind(err),
	}).Warn(err.Error())
	return failure(err)
}

func failure(err error) *Response {
	return &Response{Success: false, Error: err.Error()}
}

// errorKind names the class of err for diagnostics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingParameter):
		return "MissingParameter"
	case errors.Is(err, ErrMalformedRequest):
		return "MalformedRequest"
	case errors.Is(err, ErrRequestTooLarge):
		return "RequestTooLarge"
	case errors.Is(err, session.ErrNoImageLoaded):
		return "NoImageLoaded"
	case errors.Is(err, imaging.ErrInvalidParameter):
		return "InvalidParameter"
	case errors.Is(err, imaging.ErrNotFound):
		return "NotFound"
	case errors.Is(err, imaging.ErrIOFailure):
		return "IOFailure"
	}
	return "Internal"
}
