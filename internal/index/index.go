// Package index builds the aggregate match index consumed by the viewer.
//
// The index holds the raw text of every page, the number of distinct names
// found on each page and, for every name form that matched, the pages it
// matched on. It is rebuilt from scratch on every run.
package index

import (
	"encoding/json"
	"fmt"
	"os"

	"jamtools/internal/fsutil"
)

// Index is the aggregate artifact written for the viewer.
type Index struct {
	PageTexts       map[int]string   `json:"pageTexts"`
	PageMatchCounts []int            `json:"pageMatchCounts"`
	ArtistToPages   map[string][]int `json:"artistToPages"`
	MaxMatchCount   int              `json:"maxMatchCount"`
	TotalPages      int              `json:"totalPages"`
}

func newIndex(totalPages int) *Index {
	return &Index{
		PageTexts:       make(map[int]string, totalPages),
		PageMatchCounts: make([]int, 0, totalPages),
		ArtistToPages:   make(map[string][]int),
		TotalPages:      totalPages,
	}
}

// maxMatchCount returns the largest count, or 1 when there are no counts so
// that consumers can always divide by it.
func maxMatchCount(counts []int) int {
	if len(counts) == 0 {
		return 1
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c > best {
			best = c
		}
	}
	return best
}

// Write serializes the index to path and returns the number of bytes written.
func (idx *Index) Write(path string) (int64, error) {
	const op = "Write"

	data, err := json.Marshal(idx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to encode index: %w", op, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int64(len(data)), nil
}

// Load reads an index previously written with Write.
func Load(path string) (*Index, error) {
	const op = "Load"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", op, path, err)
	}
	return &idx, nil
}
