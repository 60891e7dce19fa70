package matching

import (
	"regexp"
)

// Match records that an entry was found on a page and which form found it.
type Match struct {
	Original string
	Form     string
}

type compiledForm struct {
	form    string
	pattern *regexp.Regexp
}

type compiledEntry struct {
	original string
	forms    []compiledForm
}

// Matcher holds the qualifying forms of every entry as precompiled
// whole-word patterns. It is safe for concurrent use.
type Matcher struct {
	entries []compiledEntry
	forms   int
}

// NewMatcher compiles the forms of entries that pass blocklist. Entry and form
// order is preserved; it decides which form wins when several could match.
func NewMatcher(entries []Entry, blocklist Blocklist) *Matcher {
	m := &Matcher{entries: make([]compiledEntry, 0, len(entries))}
	for _, e := range entries {
		ce := compiledEntry{original: e.Original}
		for _, form := range e.Forms {
			if !blocklist.Qualifies(form) {
				continue
			}
			ce.forms = append(ce.forms, compiledForm{
				form:    form,
				pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(form) + `\b`),
			})
			m.forms++
		}
		m.entries = append(m.entries, ce)
	}
	return m
}

// QualifyingForms returns how many forms survived the length and blocklist
// filters.
func (m *Matcher) QualifyingForms() int {
	return m.forms
}

// MatchPage scans normalized page text and returns at most one match per
// distinct original name, in entry order. For each entry the first of its
// forms found in text wins.
func (m *Matcher) MatchPage(text string) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	seen := make(map[string]struct{})
	for _, e := range m.entries {
		if _, ok := seen[e.original]; ok {
			continue
		}
		for _, f := range e.forms {
			if f.pattern.MatchString(text) {
				seen[e.original] = struct{}{}
				matches = append(matches, Match{Original: e.original, Form: f.form})
				break
			}
		}
	}
	return matches
}
