// Package matching finds known names in OCR'd page text.
//
// Page text and name forms are compared in a normalized space: lowercase
// ASCII letters, digits and single spaces. A name form only takes part in
// matching when it is long enough and not made up entirely of generic words
// (see Blocklist). Forms are matched as whole words.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases s, drops every character that is not an ASCII letter,
// digit or whitespace, collapses whitespace runs to a single space and trims
// the result. It is total and idempotent.
func Normalize(s string) string {
	// Casers keep state between calls and are not safe for concurrent use.
	lowered := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case isSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// isSpace also treats the ASCII information separators as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
