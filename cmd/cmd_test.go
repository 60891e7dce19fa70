package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jamtools/internal/index"
	"jamtools/internal/ocr"
)

func TestPagePrinter(t *testing.T) {
	var buf bytes.Buffer
	printPage := pagePrinter(&buf)

	printPage(ocr.PageEvent{Index: 1, Total: 3, Page: 1, Status: ocr.StatusSkipped})
	printPage(ocr.PageEvent{Index: 2, Total: 3, Page: 2, Status: ocr.StatusProcessed, Words: 412})
	printPage(ocr.PageEvent{Index: 3, Total: 3, Page: 3, Status: ocr.StatusFailed, Err: errors.New("quota")})

	want := "[1/3] Page 1 already processed, skipping\n" +
		"[2/3] Processing page 2...\n" +
		"         → 412 words extracted\n" +
		"[3/3] Processing page 3...\n" +
		"         → Error: quota\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestPrintIndexSummary(t *testing.T) {
	var buf bytes.Buffer
	idx := &index.Index{
		MaxMatchCount: 4,
		ArtistToPages: map[string][]int{"jane doe": {1}, "acme collective": {2}},
	}
	printIndexSummary(&buf, "precomputed_data.json", 3*1024*1024/2, idx)

	want := "\nGenerated precomputed_data.json (1.50 MB)\n" +
		"Max matches on a single page: 4\n" +
		"Total artist forms with matches: 2\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestIndexCommand(t *testing.T) {
	dir := t.TempDir()
	names := filepath.Join(dir, "names.json")
	textDir := filepath.Join(dir, "text")
	output := filepath.Join(dir, "out.json")

	if err := os.MkdirAll(textDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(names, []byte(`[
		{"original": "Jane Doe", "forms": ["jane doe"]},
		{"original": "The Collective", "forms": ["collective"]}
	]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(textDir, "page-2.txt"), []byte("Works by JANE DOE, 1979."), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"index", "--names", names, "--text-dir", textDir, "--output", output, "--total-pages", "3"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("index command failed: %v", err)
	}

	if !strings.HasPrefix(out.String(), "Loaded 2 Artists Space entries\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Total artist forms with matches: 1\n") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}

	idx, err := index.Load(output)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := idx.ArtistToPages["jane doe"]; len(got) != 1 || got[0] != 2 {
		t.Errorf("jane doe pages = %v, want [2]", got)
	}
	if len(idx.PageMatchCounts) != 3 || idx.PageMatchCounts[1] != 1 {
		t.Errorf("PageMatchCounts = %v, want [0 1 0]", idx.PageMatchCounts)
	}
	if idx.TotalPages != 3 || idx.MaxMatchCount != 1 {
		t.Errorf("TotalPages = %d, MaxMatchCount = %d", idx.TotalPages, idx.MaxMatchCount)
	}
}

func TestOCRCommandMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_CREDENTIALS", "")
	t.Setenv("OCR_ENGINE", "vision")

	dir := t.TempDir()
	pagesDir := filepath.Join(dir, "pages")
	outDir := filepath.Join(dir, "ocr_coords")
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pagesDir, "page-001.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"ocr", "--pages-dir", pagesDir, "--output-dir", outDir, "--engine", "vision"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	if !errors.Is(err, ocr.ErrMissingCredentials) {
		t.Fatalf("ocr command error = %v, want ErrMissingCredentials", err)
	}

	want := "Error: GOOGLE_APPLICATION_CREDENTIALS environment variable not set\n" +
		"Run: export GOOGLE_APPLICATION_CREDENTIALS='/path/to/your-key.json'\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output directory was created (stat err = %v)", err)
	}
	if _, err := os.Stat(ocr.OutputPath(outDir, 1)); !os.IsNotExist(err) {
		t.Errorf("page output was written (stat err = %v)", err)
	}
}
