// internal/summarize/schema.go
package summarize

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// summarySchema is the JSON Schema a structured response must satisfy before
// the repair loop accepts it. It is deliberately permissive about extra
// fields; only the shapes the pipeline reads are enforced.
const summarySchema = `{
  "type": "object",
  "required": ["sections"],
  "properties": {
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "bullets": {"type": "array", "items": {"type": "string"}},
          "citations": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "risks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code"],
        "properties": {
          "code": {"type": "string"},
          "severity": {"type": "string", "enum": ["low", "medium", "high"]},
          "rationale": {"type": "string"},
          "citations": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(summarySchema)

// validateSummaryJSON checks raw JSON against the summary schema.
func validateSummaryJSON(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("summary failed validation: %s", strings.Join(details, "; "))
}
