package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/image-editor-ipc/internal/config"
	"github.com/ironsheep/image-editor-ipc/internal/preview"
	"github.com/ironsheep/image-editor-ipc/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-editor %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-editor - image editing backend")
			fmt.Println()
			fmt.Println("Usage: image-editor [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_EDITOR_LOG_LEVEL=debug            Log level (debug, info, warn, error)")
			fmt.Println("  IMAGE_EDITOR_LOG_FORMAT=json            Log format (text, json)")
			fmt.Println("  IMAGE_EDITOR_PREVIEW_MAX=1024           Largest preview side in pixels")
			fmt.Println("  IMAGE_EDITOR_MAX_REQUEST_BYTES=536870912  Largest request line")
			fmt.Println()
			fmt.Println("Requests are read as JSON lines on stdin; responses are written to stdout.")
			fmt.Println("Logs go to stderr.")
			return
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-editor: %v\n", err)
		os.Exit(2)
	}

	// stdout is the response channel
	logger := cfg.NewLogger(os.Stderr)
	logger.Debugf("image-editor %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	srv := server.New(server.Options{
		Logger:          logger,
		Preview:         preview.New(cfg.PreviewMax, logger),
		MaxRequestBytes: cfg.MaxRequestBytes,
	})
	if err := srv.Run(); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
