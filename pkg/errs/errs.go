// Package errs defines the error taxonomy shared by the storage, extraction
// and analysis layers. HTTP handlers map these to status codes with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups of CVs, candidates or jobs that do not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat marks uploads whose MIME type the extractor cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrValidation marks rejected input, e.g. an unknown candidate status.
	ErrValidation = errors.New("validation failed")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func UnsupportedFormatf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnsupportedFormat)...)
}
