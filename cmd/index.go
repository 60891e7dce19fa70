package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"jamtools/internal/index"
	"jamtools/internal/logger"
	"jamtools/internal/matching"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Match the Artists Space names against the page texts",
	Long: `Build precomputed_data.json from the page texts and the Artists Space name
list.

Every page text is normalized (lowercase, letters and digits only) and searched
for every name form that is at least 8 characters long and not made up only of
common words. The output holds the raw page texts, the number of distinct names
per page and the pages each matching form occurs on.

A page without a text file is indexed with empty text and no matches.`,
	Example: `  # Build precomputed_data.json with the defaults
  jamtools index

  # Different inputs, one entry per page and form
  jamtools index --names names.json --text-dir ocr_text --dedupe-pages

  # A shorter document
  jamtools index --total-pages 40 --output sample.json`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().String("names", "", "Artists Space name list (default: NAMES_FILE or artists_space.json)")
	indexCmd.Flags().String("text-dir", "", "Directory with page-<n>.txt files (default: TEXT_DIR or text)")
	indexCmd.Flags().StringP("output", "o", "", "Output file (default: INDEX_OUTPUT or precomputed_data.json)")
	indexCmd.Flags().Int("total-pages", -1, "Number of pages in the document (default: TOTAL_PAGES or 159)")
	indexCmd.Flags().Bool("dedupe-pages", false, "Record a page at most once per form")
}

func runIndex(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("index")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	namesFile, _ := cmd.Flags().GetString("names")
	textDir, _ := cmd.Flags().GetString("text-dir")
	outputPath, _ := cmd.Flags().GetString("output")
	totalPages, _ := cmd.Flags().GetInt("total-pages")
	dedupe, _ := cmd.Flags().GetBool("dedupe-pages")

	if namesFile == "" {
		namesFile = cfg.NamesFile
	}
	if textDir == "" {
		textDir = cfg.TextDir
	}
	if outputPath == "" {
		outputPath = cfg.IndexOutput
	}
	if totalPages < 0 {
		totalPages = cfg.TotalPages
	}

	log.Info().
		Str("names", namesFile).
		Str("text_dir", textDir).
		Str("output", outputPath).
		Int("total_pages", totalPages).
		Bool("dedupe_pages", dedupe).
		Msg("Starting index build")

	entries, err := matching.LoadEntries(namesFile)
	if err != nil {
		log.Error().Err(err).Str("file", namesFile).Msg("Failed to load name list")
		return err
	}
	fmt.Fprintf(out, "Loaded %d Artists Space entries\n", len(entries))

	matcher := matching.NewMatcher(entries, matching.DefaultBlocklist())
	log.Debug().Int("forms", matcher.QualifyingForms()).Msg("Compiled name forms")

	ctx, cancel := createContextWithTimeout(0, log)
	defer cancel()

	builder := index.NewBuilder(textDir, totalPages, matcher)
	builder.DedupePages = dedupe
	builder.OnProgress = func(done, total int) {
		fmt.Fprintf(out, "Processed %d/%d pages...\n", done, total)
	}

	idx, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	size, err := idx.Write(outputPath)
	if err != nil {
		log.Error().Err(err).Str("output", outputPath).Msg("Failed to write index")
		return err
	}

	printIndexSummary(out, outputPath, size, idx)
	return nil
}

func printIndexSummary(out io.Writer, path string, size int64, idx *index.Index) {
	fmt.Fprintf(out, "\nGenerated %s (%.2f MB)\n", path, float64(size)/(1024*1024))
	fmt.Fprintf(out, "Max matches on a single page: %d\n", idx.MaxMatchCount)
	fmt.Fprintf(out, "Total artist forms with matches: %d\n", len(idx.ArtistToPages))
}
