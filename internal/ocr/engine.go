package ocr

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
)

// Supported OCR_ENGINE values.
const (
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
	EngineTesseract  = "tesseract"
)

// EngineConfig selects and configures an OCR engine.
type EngineConfig struct {
	// Engine is one of EngineVision, EngineDocumentAI or EngineTesseract.
	Engine string

	// CredentialsFile is a service account key path (GOOGLE_APPLICATION_CREDENTIALS).
	CredentialsFile string

	// CredentialsJSON is an inline service account key (GOOGLE_CREDENTIALS).
	// It takes precedence over CredentialsFile.
	CredentialsJSON string

	// Document AI processor coordinates.
	ProjectID   string
	Location    string
	ProcessorID string

	// Languages are Tesseract language codes, e.g. "eng".
	Languages []string
}

// NeedsCredentials reports whether the configured engine calls a Google Cloud API.
func (c EngineConfig) NeedsCredentials() bool {
	return c.Engine != EngineTesseract
}

// HasCredentials reports whether cloud credentials are configured.
func (c EngineConfig) HasCredentials() bool {
	return c.CredentialsJSON != "" || c.CredentialsFile != ""
}

func (c EngineConfig) clientOptions() ([]option.ClientOption, error) {
	switch {
	case c.CredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(c.CredentialsJSON))}, nil
	case c.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}, nil
	default:
		return nil, ErrMissingCredentials
	}
}

// NewEngine creates the engine named by cfg.Engine. An empty name selects Vision.
func NewEngine(ctx context.Context, cfg EngineConfig) (Engine, error) {
	const op = "NewEngine"

	switch cfg.Engine {
	case EngineVision, "":
		engine, err := NewGoogleVisionEngine(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineDocumentAI:
		engine, err := NewDocumentAIEngine(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineTesseract:
		return NewTesseractEngine(cfg.Languages)
	default:
		return nil, NewOCRError(op, ErrUnknownEngine, fmt.Sprintf("engine %q", cfg.Engine))
	}
}
