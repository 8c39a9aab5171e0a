// Package tagger matches destination keywords against content text using
// an Aho-Corasick automaton, one pass regardless of catalogue size.
package tagger

import (
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Tagger suggests destination tags for content. It is immutable after
// construction and safe for concurrent use.
type Tagger struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	kwToSlug map[string][]string
}

// New builds the automaton from a slug -> match terms mapping, as produced
// by catalog.Keywords. Terms match whole words only, case-insensitively.
func New(keywordsBySlug map[string][]string) *Tagger {
	t := &Tagger{
		kwToSlug: make(map[string][]string),
	}

	seen := make(map[string]bool)
	for slug, terms := range keywordsBySlug {
		for _, term := range terms {
			normalized := normalizeKeyword(term)
			if normalized == "" {
				continue
			}
			// Padding enforces word boundaries in the substring matcher
			padded := " " + normalized + " "
			if !seen[padded] {
				seen[padded] = true
				t.keywords = append(t.keywords, padded)
			}
			t.kwToSlug[padded] = append(t.kwToSlug[padded], slug)
		}
	}

	sort.Strings(t.keywords)
	if len(t.keywords) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.keywords)
	}

	return t
}

// Tags returns the destination slugs whose keywords appear in the text,
// sorted and de-duplicated. Title and body are matched as one document.
func (t *Tagger) Tags(title, body string) []string {
	if t.matcher == nil {
		return nil
	}

	text := " " + normalizeText(title+" "+body) + " "
	hits := t.matcher.Match([]byte(text))

	slugSet := make(map[string]bool)
	for _, hitIndex := range hits {
		if hitIndex >= len(t.keywords) {
			continue
		}
		for _, slug := range t.kwToSlug[t.keywords[hitIndex]] {
			slugSet[slug] = true
		}
	}

	if len(slugSet) == 0 {
		return nil
	}

	slugs := make([]string, 0, len(slugSet))
	for slug := range slugSet {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// MergeTags unions suggested tags into an existing tag list, preserving
// the existing order and appending new suggestions sorted.
func MergeTags(existing, suggested []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(suggested))

	for _, tag := range existing {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}
	for _, tag := range suggested {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}

	return merged
}

// KeywordCount returns the number of distinct match terms.
func (t *Tagger) KeywordCount() int {
	return len(t.keywords)
}

func normalizeKeyword(kw string) string {
	return normalizeText(strings.TrimSpace(kw))
}

// normalizeText lowercases, strips punctuation, and collapses whitespace
// runs so padded keywords line up with word boundaries.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
