package matching

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry is a canonical name together with the normalized spellings used to
// find it in page text. Forms are tried in order.
type Entry struct {
	Original string   `json:"original"`
	Forms    []string `json:"forms"`
}

// LoadEntries reads a JSON array of entries from path.
func LoadEntries(path string) ([]Entry, error) {
	const op = "LoadEntries"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s: %w", op, path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", op, path, err)
	}
	return entries, nil
}
