package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"jamtools/internal/index"
	"jamtools/internal/logger"
	"jamtools/internal/sheets"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Write the match index to a Google Sheet",
	Long: `Append one row per matched name form of precomputed_data.json to a Google
Sheet worksheet. The worksheet is created with a header row when missing.

Columns: Form, Pages, Page Count, First Page.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL to write results (or --sheet-url)

The service account needs edit access to the spreadsheet.`,
	Example: `  # Publish precomputed_data.json to the configured sheet
  jamtools publish

  # Explicit sheet and worksheet
  jamtools publish --sheet-url https://docs.google.com/spreadsheets/d/<id>/edit --worksheet "Run 2"`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringP("input", "i", "", "Match index to publish (default: INDEX_OUTPUT or precomputed_data.json)")
	publishCmd.Flags().String("sheet-url", "", "Google Sheets URL (default: GOOGLE_SHEET_URL)")
	publishCmd.Flags().String("worksheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET or Matches)")
	publishCmd.Flags().Int("timeout", 120, "Timeout in seconds, 0 for none")
}

func runPublish(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("publish")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	worksheet, _ := cmd.Flags().GetString("worksheet")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if input == "" {
		input = cfg.IndexOutput
	}
	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if worksheet == "" {
		worksheet = cfg.GoogleSheetWorksheet
	}
	if sheetURL == "" {
		return fmt.Errorf("no Google Sheet configured: set GOOGLE_SHEET_URL or pass --sheet-url")
	}

	idx, err := index.Load(input)
	if err != nil {
		log.Error().Err(err).Str("file", input).Msg("Failed to load match index")
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	svc, err := sheets.NewSheetsService(ctx, sheetURL, sheets.Credentials{
		File: cfg.GoogleCredentialsFile,
		JSON: cfg.GoogleCredentialsJSON,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Google Sheets service")
		return err
	}

	rows, err := svc.WriteMatchReport(ctx, idx, worksheet)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d forms to worksheet %q\n", rows, worksheet)
	return nil
}
