// internal/retrieval/keywords.go
package retrieval

import (
	"regexp"
	"strings"
)

// Message is a single conversation turn supplied by the caller. Only the
// role and content are inspected; conversation storage lives elsewhere.
type Message struct {
	Role    string
	Content string
}

// maxConversationKeywords caps the query-expansion input so a chatty
// history cannot dominate the actual question.
const maxConversationKeywords = 10

var medicalTermPattern = regexp.MustCompile(`(?i)\b(?:medication|drug|medicine|dose|dosage|mg|tablet|capsule|injection|prescription|allergy|side effect|contraindication|interaction|monitor|lab|test|result|diagnosis|condition|treatment|therapy|appointment|follow.?up|blood pressure|heart rate|temperature|weight|height|BMI|glucose|diabetes|hypertension|cholesterol|a1c|hemoglobin|creatinine|platelet|triglyceride)\b`)

var emphasisTermPattern = regexp.MustCompile(`(?i)\b(?:important|urgent|critical|severe|mild|moderate|high|low|normal|abnormal|positive|negative|increase|decrease|stable|improve|worsen|pain|ache|symptom|sign|problem|issue|concern|take|stop|start|continue|change|adjust)\b`)

// KeywordsFromConversation pulls medical and emphasis terms from the recent
// user turns of a conversation, lowercased and deduplicated, for use as a
// query-expansion input to snippet retrieval.
func KeywordsFromConversation(history []Message) []string {
	var recent []string
	start := len(history) - 6
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		if strings.EqualFold(msg.Role, "user") {
			recent = append(recent, msg.Content)
		}
	}
	combined := strings.Join(recent, " ")

	seen := make(map[string]struct{})
	var keywords []string
	for _, pattern := range []*regexp.Regexp{medicalTermPattern, emphasisTermPattern} {
		for _, match := range pattern.FindAllString(combined, -1) {
			kw := strings.ToLower(match)
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
			if len(keywords) >= maxConversationKeywords {
				return keywords
			}
		}
	}
	return keywords
}
