package matching

import (
	"strings"
	"unicode/utf8"
)

// MinFormLength is the shortest form, in characters, that may produce a match.
const MinFormLength = 8

var defaultBlockedWords = []string{
	"artist", "artists", "young", "black", "white", "brown", "green",
	"art", "arts", "film", "video", "music", "dance", "space", "gallery",
	"museum", "project", "group", "exhibition", "work", "works", "series",
}

// Blocklist is a set of generic words. A form made up only of these words
// would match almost every page, so it is never used.
type Blocklist map[string]struct{}

// NewBlocklist builds a blocklist from words.
func NewBlocklist(words ...string) Blocklist {
	b := make(Blocklist, len(words))
	for _, w := range words {
		b[w] = struct{}{}
	}
	return b
}

// DefaultBlocklist returns the generic words of the catalogue domain.
func DefaultBlocklist() Blocklist {
	return NewBlocklist(defaultBlockedWords...)
}

// Contains reports whether word is blocked.
func (b Blocklist) Contains(word string) bool {
	_, ok := b[word]
	return ok
}

// Covers reports whether every space-separated word of form is blocked.
func (b Blocklist) Covers(form string) bool {
	for _, w := range strings.Split(form, " ") {
		if !b.Contains(w) {
			return false
		}
	}
	return true
}

// Qualifies reports whether form may be used for matching. Forms shorter than
// MinFormLength are rejected before the blocklist is consulted.
func (b Blocklist) Qualifies(form string) bool {
	if utf8.RuneCountInString(form) < MinFormLength {
		return false
	}
	return !b.Covers(form)
}
