package snitch

import (
	"regexp"
	"sort"
	"strings"
)

// Matcher matches a fixed set of trigger words against message text.
// Words are matched case-insensitively as whole words; regex metacharacters
// in a word are literal.
type Matcher struct {
	words    []string
	patterns []*regexp.Regexp
	any      *regexp.Regexp
}

// NewMatcher compiles a matcher for the given words.
// Empty words are ignored and duplicates are collapsed.
func NewMatcher(words []string) *Matcher {
	m := &Matcher{}

	seen := make(map[string]struct{}, len(words))
	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}

		expr := wordPattern(w)
		m.words = append(m.words, w)
		m.patterns = append(m.patterns, regexp.MustCompile("(?i)"+expr))
		parts = append(parts, expr)
	}

	if len(parts) > 0 {
		m.any = regexp.MustCompile("(?i)(?:" + strings.Join(parts, "|") + ")")
	}
	return m
}

// Match returns the distinct words found in text, sorted.
func (m *Matcher) Match(text string) []string {
	if m == nil || m.any == nil || text == "" {
		return nil
	}

	// one pass over the text for the common case of no match
	if !m.any.MatchString(text) {
		return nil
	}

	var matched []string
	for i, re := range m.patterns {
		if re.MatchString(text) {
			matched = append(matched, m.words[i])
		}
	}
	sort.Strings(matched)
	return matched
}

// Match returns the distinct words in words that occur in text.
func Match(text string, words []string) []string {
	if len(words) == 0 {
		return nil
	}
	return NewMatcher(words).Match(text)
}

// nonWord matches a single rune that can't be part of a word, in any script.
const nonWord = `[^\p{L}\p{M}\p{N}_]`

// wordPattern quotes w and requires the runes on either side of it to be
// non-word runes or the ends of the text. This holds even when w starts or
// ends with punctuation, so "c++" doesn't match inside "c++x".
func wordPattern(w string) string {
	return `(?:^|` + nonWord + `)` + regexp.QuoteMeta(w) + `(?:$|` + nonWord + `)`
}
