package config

import (
	"strings"
	"testing"
)

var configKeys = []string{
	"GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_CREDENTIALS", "GOOGLE_CLOUD_PROJECT",
	"GOOGLE_CLOUD_LOCATION", "DOCUMENT_AI_PROCESSOR_ID", "OCR_ENGINE", "OCR_WORKERS",
	"TESSERACT_LANGUAGES", "PAGES_DIR", "OCR_OUTPUT_DIR", "NAMES_FILE", "TEXT_DIR",
	"INDEX_OUTPUT", "TOTAL_PAGES", "GOOGLE_SHEET_URL", "GOOGLE_SHEET_WORKSHEET",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TotalPages != DefaultTotalPages {
		t.Errorf("TotalPages = %d, want %d", cfg.TotalPages, DefaultTotalPages)
	}
	if cfg.OCREngine != "vision" || cfg.OCRWorkers != 1 {
		t.Errorf("engine = %q workers = %d, want vision/1", cfg.OCREngine, cfg.OCRWorkers)
	}
	if cfg.PagesDir != "pages" || cfg.OCROutputDir != "ocr_coords" {
		t.Errorf("unexpected OCR paths: %q %q", cfg.PagesDir, cfg.OCROutputDir)
	}
	if cfg.NamesFile != "artists_space.json" || cfg.TextDir != "text" || cfg.IndexOutput != "precomputed_data.json" {
		t.Errorf("unexpected index paths: %q %q %q", cfg.NamesFile, cfg.TextDir, cfg.IndexOutput)
	}
	if got := strings.Join(cfg.TesseractLanguages, ","); got != "eng" {
		t.Errorf("TesseractLanguages = %q, want eng", got)
	}
	if cfg.GetLoggerConfig().Output != "stderr" {
		t.Errorf("logger output = %q, want stderr", cfg.GetLoggerConfig().Output)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OCR_ENGINE", "DocumentAI")
	t.Setenv("OCR_WORKERS", "4")
	t.Setenv("TOTAL_PAGES", "12")
	t.Setenv("TESSERACT_LANGUAGES", "eng, deu ,")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/key.json")
	t.Setenv("DOCUMENT_AI_PROCESSOR_ID", "abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OCRWorkers != 4 || cfg.TotalPages != 12 {
		t.Errorf("workers = %d pages = %d", cfg.OCRWorkers, cfg.TotalPages)
	}

	engine := cfg.GetEngineConfig()
	if engine.Engine != "documentai" {
		t.Errorf("Engine = %q, want documentai", engine.Engine)
	}
	if engine.CredentialsFile != "/tmp/key.json" || engine.ProcessorID != "abc123" {
		t.Errorf("unexpected engine config: %+v", engine)
	}
	if got := strings.Join(engine.Languages, "+"); got != "eng+deu" {
		t.Errorf("Languages = %q, want eng+deu", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric workers", "OCR_WORKERS", "many"},
		{"zero workers", "OCR_WORKERS", "0"},
		{"negative pages", "TOTAL_PAGES", "-1"},
		{"unknown engine", "OCR_ENGINE", "abbyy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", tt.key, tt.value)
			}
		})
	}
}
