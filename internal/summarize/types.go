// internal/summarize/types.go
// Package summarize turns redacted document text into a structured summary
// by mapping chunk-scoped LLM calls over the document and reducing the
// partial results into one schema-stable record.
package summarize

// Severity levels for risk flags, lowest to highest.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Section is one titled group of summary bullets with source citations.
type Section struct {
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
	Citations []string `json:"citations"`
}

// Risk flags a potential problem surfaced by the model, e.g. a drug
// interaction, with a coded category and severity.
type Risk struct {
	Code      string   `json:"code"`
	Severity  string   `json:"severity"`
	Rationale string   `json:"rationale"`
	Citations []string `json:"citations"`
}

// Summary is both the map-phase partial shape and the reduce-phase result.
// Degraded marks results built from the repair-loop fallback rather than
// model output; it never serializes, so merge prompts carry only the schema
// fields.
type Summary struct {
	Sections          []Section `json:"sections"`
	Risks             []Risk    `json:"risks"`
	Style             string    `json:"-"`
	RedactionsApplied bool      `json:"-"`
	Degraded          bool      `json:"-"`
}

// severityRank orders severities for duplicate-risk resolution.
func severityRank(s string) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}
