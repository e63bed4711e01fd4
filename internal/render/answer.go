// internal/render/answer.go
package render

import (
	"regexp"
	"strings"
)

// maxAnswerSentences clamps rambling answers.
const maxAnswerSentences = 14

var (
	signoffPattern  = regexp.MustCompile(`(?i)^(Best|Regards|Sincerely|Stay safe|Take care|Your Assistant)\b`)
	snippetPattern  = regexp.MustCompile(`(?i)Snippet\s*\d+`)
	sentenceEndMark = regexp.MustCompile(`[.!?]`)
)

// CleanAnswer normalizes a raw model answer for display: sign-off lines are
// dropped, internal snippet references are reworded, repeated sentences are
// removed, and the whole answer is clamped to a readable length.
func CleanAnswer(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if signoffPattern.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.TrimSpace(strings.Join(kept, "\n"))
	text = snippetPattern.ReplaceAllString(text, "from your notes")

	sentences := splitSentences(text)
	seen := map[string]bool{}
	var out []string
	for _, s := range sentences {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(s))
		if len(out) >= maxAnswerSentences {
			break
		}
	}
	return strings.Join(out, " ")
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace. Trailing text without punctuation counts as a final sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if sentenceEndMark.MatchString(string(runes[i])) {
			if i+1 < len(runes) && !isSpace(runes[i+1]) {
				continue
			}
			sentences = append(sentences, string(runes[start:i+1]))
			for i+1 < len(runes) && isSpace(runes[i+1]) {
				i++
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
