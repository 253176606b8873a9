package imaging

import "errors"

// Error kinds returned by this package. Callers classify failures with
// errors.Is; the wrapped message names the offending value.
var (
	// ErrInvalidParameter reports a value that fails a domain constraint,
	// such as an unknown filter name or an empty crop box.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound reports a file or folder path that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIOFailure reports a read, write or codec failure.
	ErrIOFailure = errors.New("i/o failure")
)
