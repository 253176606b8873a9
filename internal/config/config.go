// Package config reads the editor's environment settings and builds its
// diagnostic logger.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-ipc/internal/preview"
)

// Environment variable names.
const (
	EnvLogLevel        = "IMAGE_EDITOR_LOG_LEVEL"
	EnvLogFormat       = "IMAGE_EDITOR_LOG_FORMAT"
	EnvPreviewMax      = "IMAGE_EDITOR_PREVIEW_MAX"
	EnvMaxRequestBytes = "IMAGE_EDITOR_MAX_REQUEST_BYTES"
)

// DefaultMaxRequestBytes bounds a single request line. Base64 payloads of
// large photos need far more than bufio's default token size.
const DefaultMaxRequestBytes = 512 << 20

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the process settings.
type Config struct {
	LogLevel        logrus.Level
	LogFormat       string
	PreviewMax      int
	MaxRequestBytes int
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		LogLevel:        logrus.InfoLevel,
		LogFormat:       FormatText,
		PreviewMax:      preview.DefaultMaxDimension,
		MaxRequestBytes: DefaultMaxRequestBytes,
	}
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load reads the configuration through getenv. Unset or empty variables
// keep their defaults; malformed ones are reported.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := strings.ToLower(strings.TrimSpace(getenv(EnvLogFormat))); v != "" {
		if v != FormatText && v != FormatJSON {
			return cfg, fmt.Errorf("%s: unknown log format %q (want text or json)", EnvLogFormat, v)
		}
		cfg.LogFormat = v
	}

	var err error
	if cfg.PreviewMax, err = positiveInt(getenv, EnvPreviewMax, cfg.PreviewMax); err != nil {
		return cfg, err
	}
	if cfg.MaxRequestBytes, err = positiveInt(getenv, EnvMaxRequestBytes, cfg.MaxRequestBytes); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func positiveInt(getenv func(string) string, name string, def int) (int, error) {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def, fmt.Errorf("%s: want a positive integer, got %q", name, v)
	}
	return n, nil
}

// NewLogger builds the diagnostic logger. Output goes to w, which must not
// be the response stream.
func (c Config) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(c.LogLevel)

	if c.LogFormat == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
