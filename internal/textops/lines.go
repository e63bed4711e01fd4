// internal/textops/lines.go
package textops

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// charsPerLine approximates how many characters a rendered document line
// holds. Extracted PDF text carries no reliable line breaks, so locators are
// estimated from character position.
const charsPerLine = 80

var pageAnchorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)page\s+(\d+)`),
	regexp.MustCompile(`(?i)\bp\.?\s*(\d+)`),
	regexp.MustCompile(`(?i)\bpg\.?\s*(\d+)`),
}

// EstimateLineRange returns an L<start>-<end> locator for a span of text that
// begins at the given character offset within its source document.
func EstimateLineRange(text string, offset int) string {
	if offset < 0 {
		offset = 0
	}
	startLine := offset/charsPerLine + 1
	endLine := (offset+len(text))/charsPerLine + 1
	return fmt.Sprintf("L%d-%d", startLine, endLine)
}

// ExtractPageAnchors scans text for page references ("Page 3", "p. 5",
// "pg 7") and returns deduplicated pN anchors in ascending textual order.
func ExtractPageAnchors(text string) []string {
	seen := make(map[string]struct{})
	for _, pattern := range pageAnchorPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			anchor := "p" + strings.TrimLeft(match[1], "0")
			if anchor == "p" {
				anchor = "p0"
			}
			seen[anchor] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	anchors := make([]string, 0, len(seen))
	for anchor := range seen {
		anchors = append(anchors, anchor)
	}
	sort.Strings(anchors)
	return anchors
}
