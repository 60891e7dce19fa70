package ocr

import (
	"context"
	"errors"
	"image"
	"reflect"
	"strings"
	"testing"
)

func TestOCRError(t *testing.T) {
	err := NewOCRError("ExtractPage", ErrExternalService, "Vision API error: quota")
	if got := err.Error(); got != "ocr: ExtractPage failed: Vision API error: quota: OCR service error" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrExternalService) {
		t.Error("errors.Is(err, ErrExternalService) = false")
	}

	bare := NewOCRError("Run", ErrEmptyImage, "")
	if got := bare.Error(); got != "ocr: Run failed: page image is empty" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapOCRError(t *testing.T) {
	if WrapOCRError("op", nil, "") != nil {
		t.Error("WrapOCRError(nil) != nil")
	}

	inner := NewOCRError("inner", ErrInvalidConfiguration, "")
	if got := WrapOCRError("outer", inner, "details"); got != error(inner) {
		t.Errorf("WrapOCRError re-wrapped an OCRError: %v", got)
	}

	wrapped := WrapOCRError("outer", ErrMissingCredentials, "no credentials")
	var ocrErr *OCRError
	if !errors.As(wrapped, &ocrErr) || ocrErr.Op != "outer" {
		t.Fatalf("WrapOCRError() = %v", wrapped)
	}
	if !errors.Is(wrapped, ErrMissingCredentials) {
		t.Error("wrapped error lost ErrMissingCredentials")
	}
}

func TestNewBoundingBox(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Vertex
		want     BoundingBox
	}{
		{
			name:     "four corners",
			vertices: []Vertex{{10, 20}, {60, 21}, {61, 45}, {9, 44}},
			want:     BoundingBox{X: 10, Y: 20, Width: 50, Height: 25, Vertices: []Vertex{{10, 20}, {60, 21}, {61, 45}, {9, 44}}},
		},
		{
			name:     "missing corners",
			vertices: []Vertex{{10, 20}},
			want:     BoundingBox{X: 10, Y: 20, Width: -10, Height: -20, Vertices: []Vertex{{10, 20}}},
		},
		{
			name: "no vertices",
			want: BoundingBox{Vertices: []Vertex{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBoundingBox(tt.vertices)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewBoundingBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectVertices(t *testing.T) {
	got := NewBoundingBox(rectVertices(image.Rect(5, 10, 25, 18)))
	want := BoundingBox{
		X: 5, Y: 10, Width: 20, Height: 8,
		Vertices: []Vertex{{5, 10}, {25, 10}, {25, 18}, {5, 18}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("box = %+v, want %+v", got, want)
	}
}

func TestEngineConfigCredentials(t *testing.T) {
	tests := []struct {
		name  string
		cfg   EngineConfig
		needs bool
		has   bool
	}{
		{"vision without credentials", EngineConfig{Engine: EngineVision}, true, false},
		{"vision with file", EngineConfig{Engine: EngineVision, CredentialsFile: "key.json"}, true, true},
		{"documentai with json", EngineConfig{Engine: EngineDocumentAI, CredentialsJSON: "{}"}, true, true},
		{"tesseract", EngineConfig{Engine: EngineTesseract}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.NeedsCredentials(); got != tt.needs {
				t.Errorf("NeedsCredentials() = %v, want %v", got, tt.needs)
			}
			if got := tt.cfg.HasCredentials(); got != tt.has {
				t.Errorf("HasCredentials() = %v, want %v", got, tt.has)
			}
		})
	}
}

func TestClientOptions(t *testing.T) {
	if _, err := (EngineConfig{}).clientOptions(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("clientOptions() error = %v, want ErrMissingCredentials", err)
	}

	opts, err := EngineConfig{CredentialsJSON: "{}", CredentialsFile: "key.json"}.clientOptions()
	if err != nil || len(opts) != 1 {
		t.Errorf("clientOptions() = %d options, %v", len(opts), err)
	}
}

func TestNewEngineErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     EngineConfig
		wantErr error
	}{
		{"unknown engine", EngineConfig{Engine: "abbyy"}, ErrUnknownEngine},
		{"vision without credentials", EngineConfig{Engine: EngineVision}, ErrMissingCredentials},
		{"default engine without credentials", EngineConfig{}, ErrMissingCredentials},
		{"documentai without project", EngineConfig{Engine: EngineDocumentAI, CredentialsJSON: "{}", ProcessorID: "p"}, ErrInvalidConfiguration},
		{"documentai without processor", EngineConfig{Engine: EngineDocumentAI, CredentialsJSON: "{}", ProjectID: "p"}, ErrInvalidConfiguration},
		{"documentai without credentials", EngineConfig{Engine: EngineDocumentAI, ProjectID: "p", ProcessorID: "x"}, ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(ctx, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewEngine() error = %v, want %v", err, tt.wantErr)
			}
			if engine != nil {
				t.Errorf("NewEngine() returned engine %v alongside error", engine)
			}
			if !strings.HasPrefix(err.Error(), "ocr: ") {
				t.Errorf("error %q is not an OCRError", err)
			}
		})
	}
}
