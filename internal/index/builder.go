package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"jamtools/internal/logger"
	"jamtools/internal/matching"
)

// ProgressInterval is how many pages pass between progress callbacks.
const ProgressInterval = 20

// Builder scans the page text files 1..TotalPages and accumulates an Index.
type Builder struct {
	// TextDir holds one page-<n>.txt per page.
	TextDir string

	// TotalPages is the number of pages in the document. Pages without a text
	// file are still present in the index with empty text and no matches.
	TotalPages int

	Matcher *matching.Matcher

	// DedupePages keeps each page at most once per form. When two entries
	// share a form, the page is otherwise recorded once per entry.
	DedupePages bool

	// OnProgress, if set, is called every ProgressInterval pages.
	OnProgress func(done, total int)

	log zerolog.Logger
}

// NewBuilder returns a Builder for the given text directory and page count.
func NewBuilder(textDir string, totalPages int, matcher *matching.Matcher) *Builder {
	return &Builder{
		TextDir:    textDir,
		TotalPages: totalPages,
		Matcher:    matcher,
		log:        logger.WithComponent("index-builder"),
	}
}

// PageTextPath returns the text file path of a page.
func PageTextPath(dir string, page int) string {
	return filepath.Join(dir, fmt.Sprintf("page-%d.txt", page))
}

// Build reads every page, matches it and returns the aggregate index.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	const op = "Build"

	if b.Matcher == nil {
		return nil, fmt.Errorf("%s: builder has no matcher", op)
	}

	idx := newIndex(b.TotalPages)
	missing := 0

	for page := 1; page <= b.TotalPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: stopped at page %d: %w", op, page, err)
		}

		text, found, err := readPageText(PageTextPath(b.TextDir, page))
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", op, page, err)
		}

		idx.PageTexts[page] = text
		if !found {
			missing++
			idx.PageMatchCounts = append(idx.PageMatchCounts, 0)
			b.log.Debug().Int("page", page).Msg("No text file for page, recording empty page")
			continue
		}

		matches := b.Matcher.MatchPage(matching.Normalize(text))
		for _, m := range matches {
			b.recordPage(idx, m.Form, page)
		}
		idx.PageMatchCounts = append(idx.PageMatchCounts, len(matches))

		if page%ProgressInterval == 0 && b.OnProgress != nil {
			b.OnProgress(page, b.TotalPages)
		}
	}

	idx.MaxMatchCount = maxMatchCount(idx.PageMatchCounts)

	b.log.Info().
		Int("total_pages", b.TotalPages).
		Int("missing_pages", missing).
		Int("max_match_count", idx.MaxMatchCount).
		Int("forms_with_matches", len(idx.ArtistToPages)).
		Msg("Match index built")

	return idx, nil
}

func (b *Builder) recordPage(idx *Index, form string, page int) {
	pages := idx.ArtistToPages[form]
	if b.DedupePages && len(pages) > 0 && pages[len(pages)-1] == page {
		return
	}
	idx.ArtistToPages[form] = append(pages, page)
}

// readPageText returns the page text and whether the file exists. A missing
// file is not an error.
func readPageText(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), true, nil
}
