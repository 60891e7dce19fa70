//go:build !tesseract

package ocr

// NewTesseractEngine returns ErrEngineNotEnabled. Rebuild with
// -tags tesseract (and libtesseract installed) to use the local engine.
func NewTesseractEngine(languages []string) (Engine, error) {
	return nil, NewOCRError("NewTesseractEngine", ErrEngineNotEnabled, "")
}
