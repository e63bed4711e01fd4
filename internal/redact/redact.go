// internal/redact/redact.go
// Package redact masks personally identifiable health information before
// document text leaves the process or is persisted. The patterns are a
// best-effort screen, not a compliance guarantee: the name pattern in
// particular will both over-match (any Title Case pair, including clinical
// terms) and under-match (single or lowercase names).
package redact

import "regexp"

type rule struct {
	pattern  *regexp.Regexp
	sentinel string
}

// fullRules is the ordered pattern set applied before summarization. Order
// matters: a span consumed by an earlier rule is invisible to later ones.
var fullRules = []rule{
	{regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`), "[REDACTED_NAME]"},
	{regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`), "[REDACTED_PHONE]"},
	{regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`), "[REDACTED_PHONE]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED_SSN]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`\b\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd)\b`), "[REDACTED_ADDRESS]"},
	{regexp.MustCompile(`\bMRN:?\s*\d+\b`), "[REDACTED_MRN]"},
	{regexp.MustCompile(`\bPatient ID:?\s*\d+\b`), "[REDACTED_PATIENT_ID]"},
}

// maskRules is the narrower pass used on snippets injected into Q&A prompts.
// It deliberately skips the free-text name pattern so grounded answers keep
// the clinical wording intact.
var maskRules = []rule{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[REDACTED_SSN]"},
	{regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`), "[REDACTED_PHONE]"},
	{regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`), "[REDACTED_PHONE]"},
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(?i)\b(?:MRN|Patient ID|Acct|Account)\s*:?\s*\w+\b`), "[REDACTED_ID]"},
}

// Deidentify replaces matched identifier spans with category sentinels and
// reports whether any substitution occurred. Applying Deidentify to text that
// contains only sentinel tokens is a no-op and reports false.
func Deidentify(text string) (string, bool) {
	applied := false
	out := text
	for _, r := range fullRules {
		if !r.pattern.MatchString(out) {
			continue
		}
		applied = true
		out = r.pattern.ReplaceAllString(out, r.sentinel)
	}
	return out, applied
}

// MaskIdentifiers scrubs emails, phone numbers, SSNs and labeled record
// identifiers from snippet text bound for a question-answering prompt.
func MaskIdentifiers(text string) string {
	out := text
	for _, r := range maskRules {
		out = r.pattern.ReplaceAllString(out, r.sentinel)
	}
	return out
}
