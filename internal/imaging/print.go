package imaging

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Printer sends an image file to a print spooler.
type Printer interface {
	// Print spools the file at path. An empty printerName selects the
	// system default printer.
	Print(path, printerName string) error
}

// LPRPrinter spools through the lpr command.
type LPRPrinter struct {
	// Command is the spooler binary; "lpr" when empty.
	Command string
}

// Print runs "lpr [-P printerName] path".
func (p LPRPrinter) Print(path, printerName string) error {
	command := p.Command
	if command == "" {
		command = "lpr"
	}
	args := []string{}
	if printerName != "" {
		args = append(args, "-P", printerName)
	}
	args = append(args, path)

	var stderr bytes.Buffer
	cmd := exec.Command(command, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: print failed: %s", ErrIOFailure, msg)
	}
	return nil
}

// PrintBuffer writes b to a temporary PNG file, hands it to p and removes
// the file afterwards.
func PrintBuffer(p Printer, b *Buffer, printerName string) error {
	f, err := os.CreateTemp("", "image-editor-print-*.png")
	if err != nil {
		return fmt.Errorf("%w: failed to create print file: %v", ErrIOFailure, err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := SaveFile(b, path, DefaultSaveQuality); err != nil {
		return err
	}
	return p.Print(path, printerName)
}
