// internal/summarize/prompts.go
package summarize

import "fmt"

// summarySystemPrompt fixes the output contract for every structured call:
// JSON matching the summary schema, citations on the anchors we pass in,
// and PHI sentinels preserved.
const summarySystemPrompt = `You are a careful medical document summarizer. Return JSON matching the provided schema.

CRITICAL REQUIREMENTS:
- Prefer medical accuracy over completeness
- Cite the page/line anchors we pass in (e.g., p1:L120-145)
- "clinical" style retains medical terminology; "patient-friendly" uses plain language at a 6th-8th grade reading level; "insurance-appeal" states findings formally for a coverage reviewer
- Identify potential risks/contraindications and include them in the risks array
- Preserve every [REDACTED_*] token exactly as written
- Use short, clear sentences

OUTPUT FORMAT:
Return valid JSON with this exact structure:
{
  "sections": [
    {"title": "Section Title", "bullets": ["bullet point"], "citations": ["p1:L10-15"]}
  ],
  "risks": [
    {"code": "RISK_CODE", "severity": "low|medium|high", "rationale": "explanation", "citations": ["p1:L20-25"]}
  ]
}

COMMON RISK CODES:
- MED-DRUG-INTERACTION: Drug interactions
- MED-ALLERGY: Allergic reactions
- MED-CONTRAINDICATION: Contraindications
- MED-DOSAGE: Dosage concerns
- MED-MONITORING: Required monitoring
- MED-FOLLOWUP: Follow-up requirements`

// chunkPrompt builds the map-phase user prompt for one chunk.
func chunkPrompt(index int, style, anchor, chunk string) string {
	return fmt.Sprintf(`Summarize the following chunk of a medical document.

Chunk Index: %d
Style: %s
Anchor: %s

Include citations in each bullet using the anchor format above.

Chunk Text:
%s

Return valid JSON following the schema above.`, index, style, anchor, chunk)
}

// mergePrompt builds the reduce-phase prompt over serialized partials.
func mergePrompt(style, partials string) string {
	return fmt.Sprintf(`You are combining partial JSON summaries from multiple chunks into one coherent JSON summary.

TASK: Merge the partial summaries below into a single, comprehensive summary.

MERGE RULES:
- Combine similar sections (merge bullets, keep all citations)
- Deduplicate identical bullets
- Keep all citations from original chunks
- For risks: keep the highest-severity version of duplicate codes, merge citations
- Preserve all [REDACTED_*] tokens
- Maintain the exact JSON schema

Target Style: %s

Partial JSON Summaries:
%s

Return the final merged JSON summary.`, style, partials)
}

// repairPrompt asks the model to fix its own malformed JSON. This is a fresh
// generation call, not a local fix-up.
func repairPrompt(broken string) string {
	return fmt.Sprintf(`The previous response was not valid JSON. Please fix it and return only valid JSON:

Previous response:
%s

Please return only valid JSON without any additional text.`, broken)
}
