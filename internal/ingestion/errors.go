package ingestion

import (
	"errors"
	"fmt"
)

// ErrNoText is returned when a document yields no readable text.
var ErrNoText = errors.New("no text could be extracted")

// UnsupportedFormatError represents an upload with a file type we cannot read.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported file format for %q: missing extension", e.Filename)
	}
	return fmt.Sprintf("unsupported file format %q for %q: only pdf, docx and txt are allowed", e.Ext, e.Filename)
}

// ExtractionError represents a failure while decoding a supported document.
type ExtractionError struct {
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Filename, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
