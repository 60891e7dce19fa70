package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"jamtools/internal/logger"
	"jamtools/internal/ocr"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Extract words and coordinates from the page images",
	Long: `Run OCR over every page-<NNN>.jpg in the pages directory and write one
page-<n>.json per page with the full page text and the bounding box of every
word.

Pages whose output already exists are skipped, so an interrupted run can be
restarted. A page that fails is reported and the run continues.

Engines (OCR_ENGINE or --engine):
  vision      - Google Cloud Vision document text detection (default)
  documentai  - Google Document AI OCR processor
  tesseract   - local Tesseract (binary built with -tags tesseract)

Required environment variables for the cloud engines:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string

Additionally for documentai:
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_CLOUD_LOCATION - Processing location (us, eu, etc.)
  DOCUMENT_AI_PROCESSOR_ID - Your Document AI OCR processor ID`,
	Example: `  # OCR pages/ into ocr_coords/
  jamtools ocr

  # Four pages at a time with Document AI
  jamtools ocr --engine documentai --workers 4

  # Custom directories, give up after ten minutes
  jamtools ocr --pages-dir scans --output-dir coords --timeout 600`,
	Args: cobra.NoArgs,
	RunE: runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().String("pages-dir", "", "Directory with page-<NNN>.jpg images (default: PAGES_DIR or pages)")
	ocrCmd.Flags().String("output-dir", "", "Directory for page-<n>.json results (default: OCR_OUTPUT_DIR or ocr_coords)")
	ocrCmd.Flags().String("engine", "", "OCR engine: vision, documentai or tesseract (default: OCR_ENGINE or vision)")
	ocrCmd.Flags().Int("workers", 0, "Pages processed in parallel (default: OCR_WORKERS or 1)")
	ocrCmd.Flags().Int("timeout", 0, "Overall timeout in seconds, 0 for none")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pagesDir, _ := cmd.Flags().GetString("pages-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	engineName, _ := cmd.Flags().GetString("engine")
	workers, _ := cmd.Flags().GetInt("workers")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if pagesDir == "" {
		pagesDir = cfg.PagesDir
	}
	if outputDir == "" {
		outputDir = cfg.OCROutputDir
	}
	if workers <= 0 {
		workers = cfg.OCRWorkers
	}

	engineCfg := cfg.GetEngineConfig()
	if engineName != "" {
		engineCfg.Engine = strings.ToLower(engineName)
	}

	log.Info().
		Str("engine", engineCfg.Engine).
		Str("pages_dir", pagesDir).
		Str("output_dir", outputDir).
		Int("workers", workers).
		Int("timeout", timeoutSecs).
		Msg("Starting OCR processing")

	if engineCfg.NeedsCredentials() && !engineCfg.HasCredentials() {
		log.Error().Msg("Google Cloud credentials not configured")
		fmt.Fprintln(out, "Error: GOOGLE_APPLICATION_CREDENTIALS environment variable not set")
		fmt.Fprintln(out, "Run: export GOOGLE_APPLICATION_CREDENTIALS='/path/to/your-key.json'")
		return ocr.ErrMissingCredentials
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	engine, err := createEngine(ctx, engineCfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	batch := ocr.NewBatch(engine, pagesDir, outputDir)
	batch.Workers = workers
	batch.OnPage = pagePrinter(out)

	images, err := batch.ListPageImages()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d pages to process\n", len(images))

	summary, err := batch.RunImages(ctx, images)
	if err != nil {
		return handleOCRError(err, log)
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("OCR processing completed")

	fmt.Fprintf(out, "\nDone! OCR data saved to %s/\n", strings.TrimSuffix(outputDir, "/"))
	fmt.Fprintln(out, "Next step: Run jamtools index to regenerate precomputed data with coordinates")
	return nil
}

// pagePrinter prints one progress block per page.
func pagePrinter(out io.Writer) func(ocr.PageEvent) {
	return func(ev ocr.PageEvent) {
		switch ev.Status {
		case ocr.StatusSkipped:
			fmt.Fprintf(out, "[%d/%d] Page %d already processed, skipping\n", ev.Index, ev.Total, ev.Page)
		case ocr.StatusProcessed:
			fmt.Fprintf(out, "[%d/%d] Processing page %d...\n", ev.Index, ev.Total, ev.Page)
			fmt.Fprintf(out, "         → %d words extracted\n", ev.Words)
		case ocr.StatusFailed:
			fmt.Fprintf(out, "[%d/%d] Processing page %d...\n", ev.Index, ev.Total, ev.Page)
			fmt.Fprintf(out, "         → Error: %v\n", ev.Err)
		}
	}
}

// createEngine creates and configures the OCR engine
func createEngine(ctx context.Context, cfg ocr.EngineConfig, log zerolog.Logger) (ocr.Engine, error) {
	engine, err := ocr.NewEngine(ctx, cfg)
	if err != nil {
		switch {
		case errors.Is(err, ocr.ErrMissingCredentials):
			log.Error().Err(err).Msg("Google Cloud credentials validation failed")
			return nil, fmt.Errorf("Google Cloud credentials validation failed. Please verify:\n\n" +
				"1. Credentials file exists and is readable\n" +
				"2. JSON format is valid\n" +
				"3. Service account has proper permissions\n\n" +
				"Original error: %w", err)
		case errors.Is(err, ocr.ErrEngineNotEnabled):
			log.Error().Err(err).Msg("Tesseract engine requested but not compiled in")
			return nil, fmt.Errorf("the tesseract engine is not available in this build, rebuild with: go build -tags tesseract: %w", err)
		default:
			log.Error().Err(err).Str("engine", cfg.Engine).Msg("Failed to create OCR engine")
			return nil, fmt.Errorf("failed to create OCR engine: %w", err)
		}
	}

	log.Debug().Str("engine", engine.Name()).Msg("OCR engine created successfully")
	return engine, nil
}

// handleOCRError provides user-friendly error messages for an interrupted batch
func handleOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR processing timed out. Completed pages are kept, run the command again to resume: %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR processing was canceled. Completed pages are kept, run the command again to resume: %w", err)
	default:
		return fmt.Errorf("OCR processing failed: %w", err)
	}
}
