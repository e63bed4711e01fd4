// internal/retrieval/snippets.go
// Package retrieval finds relevance-scored document snippets for grounding
// question-answering prompts. Scoring is plain keyword density over
// non-overlapping text windows; there is no index and nothing is persisted.
package retrieval

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultWindow is the number of context characters carved out on each side
// of a keyword match.
const DefaultWindow = 450

// DefaultMaxSnippets caps how many snippets a single retrieval returns.
const DefaultMaxSnippets = 5

// MaxGlobalSnippets bounds the merged multi-document result so the grounding
// block stays inside the model's context budget.
const MaxGlobalSnippets = 5

// Snippet is one scored text window. Citation is an opaque locator such as
// "L120-980" or "doc:3 L120-980".
type Snippet struct {
	Text     string
	Citation string
	Score    float64
}

// Document pairs extracted document text with the identifier used to tag
// citations. The text is produced upstream (PDF extraction or OCR).
type Document struct {
	ID   string
	Name string
	Text string
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// ExtractSnippets scans text for query keywords and returns up to maxSnippets
// non-overlapping windows around the first matches in document order, sorted
// by descending keyword density. Ties keep encounter order.
func ExtractSnippets(text, query string, maxSnippets, window int) []Snippet {
	if maxSnippets <= 0 {
		maxSnippets = DefaultMaxSnippets
	}
	if window <= 0 {
		window = DefaultWindow
	}

	keywords := wordPattern.FindAllString(strings.ToLower(query), -1)
	if len(keywords) == 0 {
		return nil
	}

	escaped := make([]string, len(keywords))
	for i, kw := range keywords {
		escaped[i] = regexp.QuoteMeta(kw)
	}
	pattern, err := regexp.Compile(`(?i)` + strings.Join(escaped, "|"))
	if err != nil {
		return nil
	}

	var snippets []Snippet
	var seenStarts []int
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if len(snippets) >= maxSnippets {
			break
		}
		matchStart, matchEnd := loc[0], loc[1]
		if tooClose(seenStarts, matchStart, window) {
			continue
		}
		seenStarts = append(seenStarts, matchStart)

		start := matchStart - window
		if start < 0 {
			start = 0
		}
		end := matchEnd + window
		if end > len(text) {
			end = len(text)
		}

		snippetText := trimToWords(text[start:end], start > 0, end < len(text))
		snippets = append(snippets, Snippet{
			Text:     strings.TrimSpace(snippetText),
			Citation: fmt.Sprintf("L%d-%d", start, end),
			Score:    densityScore(snippetText, keywords),
		})
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})
	return snippets
}

// ExtractFromDocuments retrieves per document, tags citations with the
// document identifier, and merges the results sorted by score, deduplicated
// by normalized snippet text and capped at MaxGlobalSnippets.
func ExtractFromDocuments(docs []Document, query string, perDoc int) []Snippet {
	if perDoc <= 0 {
		perDoc = 3
	}

	var all []Snippet
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		for _, s := range ExtractSnippets(doc.Text, query, perDoc, DefaultWindow) {
			s.Citation = fmt.Sprintf("doc:%s %s", doc.ID, s.Citation)
			all = append(all, s)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})

	unique := dedupeByText(all)
	if len(unique) > MaxGlobalSnippets {
		unique = unique[:MaxGlobalSnippets]
	}
	return unique
}

// tooClose reports whether a match start falls within window characters of a
// start that already produced a snippet.
func tooClose(starts []int, pos, window int) bool {
	for _, s := range starts {
		d := pos - s
		if d < 0 {
			d = -d
		}
		if d < window {
			return true
		}
	}
	return false
}

// trimToWords drops partial words at the clamped edges of a carved window.
func trimToWords(s string, trimLeft, trimRight bool) string {
	if trimLeft {
		if i := strings.IndexByte(s, ' '); i > 0 {
			s = s[i+1:]
		}
	}
	if trimRight {
		if i := strings.LastIndexByte(s, ' '); i > 0 {
			s = s[:i]
		}
	}
	return s
}

// densityScore is occurrences of any query token divided by the number of
// distinct query tokens. A crude heuristic, but stable and cheap.
func densityScore(snippet string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(snippet)
	count := 0
	for _, kw := range keywords {
		count += strings.Count(lower, kw)
	}
	return float64(count) / float64(len(keywords))
}

// NormalizeText collapses whitespace and case for duplicate detection. Two
// snippets are duplicates when their normalized text matches.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func dedupeByText(snippets []Snippet) []Snippet {
	seen := make(map[string]struct{}, len(snippets))
	out := make([]Snippet, 0, len(snippets))
	for _, s := range snippets {
		key := NormalizeText(s.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
