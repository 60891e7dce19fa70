package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"jamtools/internal/logger"
	"jamtools/internal/ocr"
)

// DefaultTotalPages is the page count of the scanned catalogue.
const DefaultTotalPages = 159

type Config struct {
	// Google Cloud Configuration
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// OCR Configuration
	OCREngine          string
	OCRWorkers         int
	TesseractLanguages []string
	PagesDir           string
	OCROutputDir       string

	// Match Index Configuration
	NamesFile   string
	TextDir     string
	IndexOutput string
	TotalPages  int

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	workers, err := getEnvInt("OCR_WORKERS", 1)
	if err != nil {
		return nil, err
	}
	totalPages, err := getEnvInt("TOTAL_PAGES", DefaultTotalPages)
	if err != nil {
		return nil, err
	}

	config := &Config{
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		OCREngine:             strings.ToLower(getEnv("OCR_ENGINE", ocr.EngineVision)),
		OCRWorkers:            workers,
		TesseractLanguages:    splitList(getEnv("TESSERACT_LANGUAGES", "eng")),
		PagesDir:              getEnv("PAGES_DIR", "pages"),
		OCROutputDir:          getEnv("OCR_OUTPUT_DIR", "ocr_coords"),
		NamesFile:             getEnv("NAMES_FILE", "artists_space.json"),
		TextDir:               getEnv("TEXT_DIR", "text"),
		IndexOutput:           getEnv("INDEX_OUTPUT", "precomputed_data.json"),
		TotalPages:            totalPages,
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:  getEnv("GOOGLE_SHEET_WORKSHEET", "Matches"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OCRWorkers < 1 {
		return fmt.Errorf("OCR_WORKERS must be at least 1, got %d", c.OCRWorkers)
	}
	if c.TotalPages < 0 {
		return fmt.Errorf("TOTAL_PAGES must not be negative, got %d", c.TotalPages)
	}
	switch c.OCREngine {
	case ocr.EngineVision, ocr.EngineDocumentAI, ocr.EngineTesseract:
	default:
		return fmt.Errorf("OCR_ENGINE %q is not one of %s, %s, %s",
			c.OCREngine, ocr.EngineVision, ocr.EngineDocumentAI, ocr.EngineTesseract)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetEngineConfig returns the OCR engine configuration from the main config
func (c *Config) GetEngineConfig() ocr.EngineConfig {
	return ocr.EngineConfig{
		Engine:          c.OCREngine,
		CredentialsFile: c.GoogleCredentialsFile,
		CredentialsJSON: c.GoogleCredentialsJSON,
		ProjectID:       c.GoogleCloudProject,
		Location:        c.GoogleCloudLocation,
		ProcessorID:     c.DocumentAIProcessorID,
		Languages:       c.TesseractLanguages,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
