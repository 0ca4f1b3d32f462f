package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrExtractionFailed is returned when the model call itself fails.
	ErrExtractionFailed = errors.New("invoice extraction failed")

	// ErrUnextractableDocument is returned for PDFs with no usable text
	// layer (scanned images masquerading as PDFs). The model is never
	// called in that case.
	ErrUnextractableDocument = errors.New("document has no extractable text")

	// ErrExtractionParse is returned when the model response cannot be
	// parsed as invoice JSON after all fallbacks.
	ErrExtractionParse = errors.New("failed to parse invoice data from model response")

	// ErrUnsupportedFormat is returned for file types the adapter does not accept.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// ExtractionError wraps errors with context about the failed extraction.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "ExtractInvoice", "extractFromPDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapExtractionError wraps an error as an ExtractionError if it isn't already one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		return err
	}

	return &ExtractionError{Op: op, Err: err, Details: details}
}
