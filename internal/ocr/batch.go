package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"jamtools/internal/fsutil"
	"jamtools/internal/logger"
)

// PageImagePattern matches the page images in the pages directory.
const PageImagePattern = "page-*.jpg"

// PageStatus is the outcome of one page in a batch.
type PageStatus string

const (
	StatusProcessed PageStatus = "processed"
	StatusSkipped   PageStatus = "skipped"
	StatusFailed    PageStatus = "failed"
)

// PageImage is a page image and the page number parsed from its name.
type PageImage struct {
	Path string
	Page int
}

// PageEvent reports the outcome of one page.
type PageEvent struct {
	// Index is the 1-based position of the page in the batch, Total the batch size.
	Index int
	Total int

	Page   int
	Status PageStatus
	Words  int
	Err    error
}

// BatchSummary counts page outcomes.
type BatchSummary struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
}

// Batch runs an Engine over every page image of a directory and writes one
// page-<n>.json per page. Pages whose output already exists are skipped, so
// an interrupted batch can simply be run again. A failing page is reported
// and does not stop the batch.
type Batch struct {
	Engine    Engine
	PagesDir  string
	OutputDir string

	// Workers bounds the number of pages processed concurrently. Values below
	// 1 mean one.
	Workers int

	// OnPage, if set, is called once per page. Calls are serialized.
	OnPage func(PageEvent)

	log zerolog.Logger
}

// NewBatch returns a sequential batch over pagesDir writing to outputDir.
func NewBatch(engine Engine, pagesDir, outputDir string) *Batch {
	return &Batch{
		Engine:    engine,
		PagesDir:  pagesDir,
		OutputDir: outputDir,
		Workers:   1,
		log:       logger.WithComponent("ocr-batch"),
	}
}

// OutputPath returns the coordinates file path of a page.
func OutputPath(dir string, page int) string {
	return filepath.Join(dir, fmt.Sprintf("page-%d.json", page))
}

// ParsePageNumber extracts the page number from an image name such as
// "page-001.jpg".
func ParsePageNumber(name string) (int, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(stem, "-")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPageName, name)
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPageName, name)
	}
	return page, nil
}

// ListPageImages returns the page images of dir sorted by file name. Images
// whose name carries no page number are logged and left out.
func (b *Batch) ListPageImages() ([]PageImage, error) {
	paths, err := filepath.Glob(filepath.Join(b.PagesDir, PageImagePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list page images: %w", err)
	}
	sort.Strings(paths)

	images := make([]PageImage, 0, len(paths))
	for _, path := range paths {
		page, err := ParsePageNumber(path)
		if err != nil {
			b.log.Warn().Err(err).Str("file", path).Msg("Skipping page image without page number")
			continue
		}
		images = append(images, PageImage{Path: path, Page: page})
	}
	return images, nil
}

// Run processes every page image of PagesDir. It returns an error only when
// the batch could not start or ctx was canceled; per-page failures are
// counted in the summary.
func (b *Batch) Run(ctx context.Context) (*BatchSummary, error) {
	images, err := b.ListPageImages()
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	return b.RunImages(ctx, images)
}

// RunImages processes the given page images, as returned by ListPageImages.
func (b *Batch) RunImages(ctx context.Context, images []PageImage) (*BatchSummary, error) {
	const op = "RunImages"

	if b.Engine == nil {
		return nil, fmt.Errorf("%s: batch has no engine", op)
	}
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create output directory: %w", op, err)
	}

	summary := &BatchSummary{Total: len(images)}
	var mu sync.Mutex
	report := func(ev PageEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch ev.Status {
		case StatusProcessed:
			summary.Processed++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
		if b.OnPage != nil {
			b.OnPage(ev)
		}
	}

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	b.log.Info().
		Str("engine", b.Engine.Name()).
		Str("pages_dir", b.PagesDir).
		Str("output_dir", b.OutputDir).
		Int("pages", len(images)).
		Int("workers", workers).
		Msg("Starting OCR batch")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, img := range images {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ev := b.processPage(gctx, img)
			ev.Index = i + 1
			ev.Total = len(images)
			if ev.Status == StatusFailed && ctx.Err() != nil {
				return ctx.Err()
			}
			report(ev)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("%s: batch interrupted: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("%s: batch interrupted: %w", op, err)
	}

	b.log.Info().
		Int("total", summary.Total).
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("OCR batch completed")

	return summary, nil
}

func (b *Batch) processPage(ctx context.Context, img PageImage) PageEvent {
	log := logger.WithPage(b.log, img.Page)
	ev := PageEvent{Page: img.Page}
	outPath := OutputPath(b.OutputDir, img.Page)

	exists, err := fsutil.Exists(outPath)
	if err != nil {
		ev.Status, ev.Err = StatusFailed, err
		log.Error().Err(err).Str("output", outPath).Msg("Failed to check page output")
		return ev
	}
	if exists {
		ev.Status = StatusSkipped
		log.Debug().Str("output", outPath).Msg("Page already processed")
		return ev
	}

	data, err := os.ReadFile(img.Path)
	if err != nil {
		ev.Status, ev.Err = StatusFailed, fmt.Errorf("failed to read page image: %w", err)
		log.Error().Err(err).Str("file", img.Path).Msg("Failed to read page image")
		return ev
	}

	result, err := b.Engine.ExtractPage(ctx, data)
	if err != nil {
		ev.Status, ev.Err = StatusFailed, err
		log.Error().Err(err).Str("file", img.Path).Msg("OCR failed for page")
		return ev
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		ev.Status, ev.Err = StatusFailed, fmt.Errorf("failed to encode page result: %w", err)
		return ev
	}
	if err := fsutil.WriteFileAtomic(outPath, encoded, 0o644); err != nil {
		ev.Status, ev.Err = StatusFailed, err
		log.Error().Err(err).Str("output", outPath).Msg("Failed to write page result")
		return ev
	}

	ev.Status = StatusProcessed
	ev.Words = len(result.Words)
	log.Debug().Int("words", ev.Words).Str("output", outPath).Msg("Page processed")
	return ev
}
