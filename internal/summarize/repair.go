// internal/summarize/repair.go
package summarize

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/medivise/medivise/internal/logging"
)

// Generator is the slice of the LLM client the repair loop needs.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// StructuredResult carries the parsed summary plus provenance for the caller:
// whether the deterministic fallback fired and the raw text of the last
// model response.
type StructuredResult struct {
	Summary  Summary
	Fallback bool
	Raw      string
}

// RunStructured drives the generate-parse-repair loop. maxRetries bounds the
// total number of gateway calls, repair calls included. A gateway error on
// the first call propagates to the caller; once any response text exists,
// further gateway errors end the loop and the fallback is returned instead.
func RunStructured(ctx context.Context, g Generator, systemPrompt, userPrompt string, maxRetries int) (StructuredResult, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var raw string
	prompt := userPrompt
	for attempt := 1; attempt <= maxRetries; attempt++ {
		text, err := g.Generate(ctx, prompt, systemPrompt)
		if err != nil {
			if attempt == 1 {
				return StructuredResult{}, err
			}
			logging.LogEvent("structured generation failed on repair attempt %d: %v", attempt, err)
			break
		}
		raw = text

		if s, ok := parseSummary(text); ok {
			return StructuredResult{Summary: s, Raw: text}, nil
		}
		if window, ok := braceWindow(text); ok {
			if s, ok := parseSummary(window); ok {
				return StructuredResult{Summary: s, Raw: text}, nil
			}
		}
		prompt = repairPrompt(text)
	}

	return StructuredResult{Summary: fallbackSummary(raw), Fallback: true, Raw: raw}, nil
}

// parseSummary strict-parses candidate JSON and checks it against the schema.
func parseSummary(text string) (Summary, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Summary{}, false
	}
	if err := validateSummaryJSON([]byte(trimmed)); err != nil {
		return Summary{}, false
	}
	var s Summary
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return Summary{}, false
	}
	return s, true
}

// braceWindow extracts the span from the first line starting with "{" through
// the first subsequent line ending with "}". Models often wrap JSON in prose
// or code fences; this strips both without attempting a real parse.
func braceWindow(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}
	for i := start; i < len(lines); i++ {
		if strings.HasSuffix(strings.TrimSpace(lines[i]), "}") {
			return strings.Join(lines[start:i+1], "\n"), true
		}
	}
	return "", false
}

// fallbackSummary is the deterministic last resort: a single Summary section
// holding the first 200 characters of whatever the model last said.
func fallbackSummary(raw string) Summary {
	bullet := strings.TrimSpace(raw)
	if len(bullet) > 200 {
		bullet = bullet[:200]
	}
	if bullet == "" {
		bullet = "The document could not be summarized automatically."
	}
	return Summary{
		Sections: []Section{{
			Title:     "Summary",
			Bullets:   []string{bullet},
			Citations: []string{},
		}},
		Risks:    []Risk{},
		Degraded: true,
	}
}
