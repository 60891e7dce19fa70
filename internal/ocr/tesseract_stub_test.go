//go:build !tesseract

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestTesseractNotEnabled(t *testing.T) {
	engine, err := NewEngine(context.Background(), EngineConfig{Engine: EngineTesseract, Languages: []string{"eng"}})
	if !errors.Is(err, ErrEngineNotEnabled) {
		t.Fatalf("NewEngine(tesseract) error = %v, want ErrEngineNotEnabled", err)
	}
	if engine != nil {
		t.Fatalf("NewEngine(tesseract) returned engine %v", engine)
	}
}
