package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS is configured for a cloud engine.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrExternalService is returned when the recognition service reports an
	// error for a page or cannot be reached.
	ErrExternalService = errors.New("OCR service error")

	// ErrEmptyImage is returned when a page image has no content.
	ErrEmptyImage = errors.New("page image is empty")

	// ErrInvalidConfiguration is returned when an engine is missing required settings.
	ErrInvalidConfiguration = errors.New("invalid OCR engine configuration")

	// ErrUnknownEngine is returned for an unsupported OCR_ENGINE value.
	ErrUnknownEngine = errors.New("unknown OCR engine")

	// ErrEngineNotEnabled is returned when the Tesseract engine was not compiled in.
	// Rebuild with -tags tesseract to enable it.
	ErrEngineNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

	// ErrInvalidPageName is returned when a page image name carries no page number.
	ErrInvalidPageName = errors.New("page image name has no page number")
)

// OCRError wraps errors with additional context about the OCR processing failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "ExtractPage", "NewEngine").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}

	return NewOCRError(op, err, details)
}
