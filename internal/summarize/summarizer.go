// internal/summarize/summarizer.go
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/medivise/medivise/internal/logging"
	"github.com/medivise/medivise/internal/redact"
	"github.com/medivise/medivise/internal/textops"
)

// ErrNoUsableChunks means every chunk of the document failed to produce a
// partial summary.
var ErrNoUsableChunks = errors.New("summarize: no chunk produced a usable partial summary")

var validStyles = map[string]bool{
	"clinical":         true,
	"patient-friendly": true,
	"insurance-appeal": true,
}

// Summarizer runs the map-reduce pipeline over a single document.
type Summarizer struct {
	gen        Generator
	maxChars   int
	overlap    int
	maxRetries int
}

// New returns a Summarizer with the given chunking and retry settings.
func New(gen Generator, maxChars, overlap, maxRetries int) *Summarizer {
	return &Summarizer{gen: gen, maxChars: maxChars, overlap: overlap, maxRetries: maxRetries}
}

// Summarize de-identifies the text, segments it, summarizes each chunk, and
// merges the partials into one normalized Summary.
func (s *Summarizer) Summarize(ctx context.Context, text, style string) (Summary, error) {
	if !validStyles[style] {
		return Summary{}, fmt.Errorf("summarize: unknown style %q", style)
	}
	if strings.TrimSpace(text) == "" {
		return Summary{}, errors.New("summarize: empty document")
	}

	clean, redacted := redact.Deidentify(text)
	chunks := textops.ChunkWithOverlap(clean, s.maxChars, s.overlap)

	var partials []Summary
	degraded := false
	for _, chunk := range chunks {
		anchor := "p1:" + textops.EstimateLineRange(chunk.Text, chunk.Offset)
		prompt := chunkPrompt(chunk.Index, style, anchor, chunk.Text)
		res, err := RunStructured(ctx, s.gen, summarySystemPrompt, prompt, s.maxRetries)
		if err != nil {
			logging.LogEvent("chunk %d failed: %v", chunk.Index, err)
			continue
		}
		if res.Fallback {
			degraded = true
		}
		partials = append(partials, res.Summary)
	}
	if len(partials) == 0 {
		return Summary{}, ErrNoUsableChunks
	}

	merged, reduceDegraded := s.reduce(ctx, partials, style)
	merged = normalize(merged)
	merged.Style = style
	merged.RedactionsApplied = redacted
	merged.Degraded = degraded || reduceDegraded
	return merged, nil
}

// reduce merges partial summaries. A single partial short-circuits without a
// gateway call. If the merge call fails or falls back, the partials are merged
// locally and the result marked degraded.
func (s *Summarizer) reduce(ctx context.Context, partials []Summary, style string) (Summary, bool) {
	if len(partials) == 1 {
		return partials[0], partials[0].Degraded
	}

	serialized := make([]string, 0, len(partials))
	for _, p := range partials {
		b, err := json.Marshal(p)
		if err != nil {
			continue
		}
		serialized = append(serialized, string(b))
	}
	prompt := mergePrompt(style, strings.Join(serialized, "\n\n"))
	res, err := RunStructured(ctx, s.gen, summarySystemPrompt, prompt, s.maxRetries)
	if err != nil {
		logging.LogEvent("reduce failed, merging partials locally: %v", err)
		return mergeLocally(partials), true
	}
	if res.Fallback {
		return mergeLocally(partials), true
	}
	degraded := false
	for _, p := range partials {
		if p.Degraded {
			degraded = true
		}
	}
	return res.Summary, degraded
}

// mergeLocally concatenates partials without model help.
func mergeLocally(partials []Summary) Summary {
	var out Summary
	for _, p := range partials {
		out.Sections = append(out.Sections, p.Sections...)
		out.Risks = append(out.Risks, p.Risks...)
	}
	return out
}

// normalize title-cases section titles, merges sections sharing a title, and
// dedupes bullets and citations while preserving first-seen order.
func normalize(s Summary) Summary {
	index := map[string]int{}
	var sections []Section
	for _, sec := range s.Sections {
		title := titleCase(strings.TrimSpace(sec.Title))
		if title == "" {
			title = "Summary"
		}
		if i, ok := index[title]; ok {
			sections[i].Bullets = append(sections[i].Bullets, sec.Bullets...)
			sections[i].Citations = append(sections[i].Citations, sec.Citations...)
			continue
		}
		index[title] = len(sections)
		sections = append(sections, Section{Title: title, Bullets: sec.Bullets, Citations: sec.Citations})
	}
	for i := range sections {
		sections[i].Bullets = dedupePreserve(sections[i].Bullets)
		sections[i].Citations = dedupePreserve(sections[i].Citations)
	}
	s.Sections = sections
	s.Risks = mergeRisks(s.Risks)
	return s
}

// mergeRisks keeps one entry per code, at the highest severity seen, with
// citations pooled.
func mergeRisks(risks []Risk) []Risk {
	index := map[string]int{}
	var out []Risk
	for _, r := range risks {
		code := strings.ToUpper(strings.TrimSpace(r.Code))
		if code == "" {
			continue
		}
		r.Code = code
		if i, ok := index[code]; ok {
			if severityRank(r.Severity) > severityRank(out[i].Severity) {
				out[i].Severity = r.Severity
				out[i].Rationale = r.Rationale
			}
			out[i].Citations = dedupePreserve(append(out[i].Citations, r.Citations...))
			continue
		}
		index[code] = len(out)
		r.Citations = dedupePreserve(r.Citations)
		out = append(out, r)
	}
	return out
}

// dedupePreserve drops repeats keeping first occurrences. Two items are the
// same when they match after case folding and whitespace collapsing.
func dedupePreserve(items []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, item := range items {
		key := strings.ToLower(strings.Join(strings.Fields(item), " "))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// MedicationsFromSummary pulls up to five bullets from medication-related
// sections.
func MedicationsFromSummary(s Summary) []string {
	var out []string
	for _, sec := range s.Sections {
		lower := strings.ToLower(sec.Title)
		if strings.Contains(lower, "medication") || strings.Contains(lower, "prescription") {
			out = append(out, sec.Bullets...)
		}
	}
	out = dedupePreserve(out)
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// HighlightsFromSummary returns up to n leading bullets across all sections.
func HighlightsFromSummary(s Summary, n int) []string {
	if n <= 0 {
		n = 5
	}
	var out []string
	for _, sec := range s.Sections {
		for _, b := range sec.Bullets {
			out = append(out, b)
			if len(out) >= n {
				return out
			}
		}
	}
	return out
}
