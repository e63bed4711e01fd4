// internal/qa/qa.go
// Package qa answers questions about a user's documents, grounding the model
// on retrieved snippets when the question warrants it.
package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/medivise/medivise/internal/redact"
	"github.com/medivise/medivise/internal/render"
	"github.com/medivise/medivise/internal/retrieval"
)

const qaSystemPrompt = `You are a helpful assistant that answers questions about a person's own medical documents.

RULES:
- Answer only from the provided context when context is given
- If the context does not contain the answer, say so plainly
- Never invent medications, dosages, dates, or test results
- Use plain language an adult without medical training can follow
- Do not refer to snippets by number; say "from your notes" instead
- Do not add a closing or signature`

// Generator is the slice of the LLM client the answerer needs.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// AnswerResult is an answer plus the provenance of its grounding.
type AnswerResult struct {
	Answer      string
	Citations   []string
	ContextUsed bool
}

// Answerer turns a question and a document set into a grounded answer.
type Answerer struct {
	gen    Generator
	perDoc int
}

// New returns an Answerer retrieving up to perDoc snippets per document.
func New(gen Generator, perDoc int) *Answerer {
	return &Answerer{gen: gen, perDoc: perDoc}
}

// Answer retrieves snippets for the question, builds a grounded prompt, and
// cleans the model's reply. Questions too thin to ground go to the model
// without context.
func (a *Answerer) Answer(ctx context.Context, question string, docs []retrieval.Document, history []retrieval.Message) (AnswerResult, error) {
	query := question
	if terms := retrieval.KeywordsFromConversation(append(history, retrieval.Message{Role: "user", Content: question})); len(terms) > 0 {
		query = question + " " + strings.Join(terms, " ")
	}

	var snippets []retrieval.Snippet
	if ShouldUseContext(question) {
		snippets = retrieval.ExtractFromDocuments(docs, query, a.perDoc)
	}

	prompt := a.buildPrompt(question, snippets)
	raw, err := a.gen.Generate(ctx, prompt, qaSystemPrompt)
	if err != nil {
		return AnswerResult{}, err
	}

	result := AnswerResult{
		Answer:      render.CleanAnswer(raw),
		ContextUsed: len(snippets) > 0,
	}
	seen := map[string]bool{}
	for _, s := range snippets {
		if seen[s.Citation] {
			continue
		}
		seen[s.Citation] = true
		result.Citations = append(result.Citations, s.Citation)
		if len(result.Citations) >= 5 {
			break
		}
	}
	return result, nil
}

func (a *Answerer) buildPrompt(question string, snippets []retrieval.Snippet) string {
	if len(snippets) == 0 {
		return fmt.Sprintf("Question: %s\n\nAnswer based on general knowledge, and say that the person's documents do not cover this.", question)
	}
	var b strings.Builder
	b.WriteString("Context from the person's documents:\n")
	for _, s := range snippets {
		b.WriteString("- from your notes: ")
		b.WriteString(redact.MaskIdentifiers(s.Text))
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer using only the context above.")
	return b.String()
}

// medicalKeywords gates context retrieval: a question must mention at least
// one of these to be worth grounding.
var medicalKeywords = []string{
	"medication", "medicine", "drug", "dose", "dosage", "prescription",
	"diagnosis", "condition", "symptom", "treatment", "test", "result",
	"lab", "blood", "pressure", "doctor", "visit", "appointment",
	"surgery", "procedure", "allergy", "allergies", "side effect",
	"instruction", "follow-up", "followup", "referral", "insurance",
	"claim", "report", "scan", "x-ray", "mri", "prescribed",
}

// ShouldUseContext reports whether a question is substantial enough, and
// medical enough, to ground on document snippets.
func ShouldUseContext(question string) bool {
	words := strings.Fields(question)
	if len(words) < 4 {
		return false
	}
	lower := strings.ToLower(question)
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
