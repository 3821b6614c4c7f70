// Package extract turns stored CV documents into plain text.
package extract

import (
	"fmt"
	"os"

	"code.sajari.com/docconv"

	"ats-backend/pkg/errs"
)

// MIME types accepted for uploaded CVs.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOC  = "application/msword"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Supported reports whether mimeType is a format the extractor can handle.
func Supported(mimeType string) bool {
	switch mimeType {
	case MimeTypePDF, MimeTypeDOC, MimeTypeDOCX:
		return true
	}
	return false
}

// Extractor reads a stored document and extracts its raw text content.
// Formatting is discarded; callers treat the output as one opaque string.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText reads the file at path and extracts text according to the
// declared MIME type. A missing or unreadable file is returned as an error
// so the caller can drive the FAILED transition; it is never swallowed.
func (e *Extractor) ExtractText(path, mimeType string) (string, error) {
	if !Supported(mimeType) {
		return "", errs.UnsupportedFormatf("mime type %q", mimeType)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open cv file: %w", err)
	}
	defer f.Close()

	res, err := docconv.Convert(f, mimeType, true)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", mimeType, err)
	}
	return res.Body, nil
}
