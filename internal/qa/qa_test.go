// internal/qa/qa_test.go
package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/medivise/medivise/internal/retrieval"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
	systems []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.systems = append(s.systems, systemPrompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestShouldUseContext(t *testing.T) {
	cases := []struct {
		question string
		want     bool
	}{
		{"What medication am I taking right now", true},
		{"What did my blood pressure reading show", true},
		{"hello", false},
		{"how are you today friend", false},
		{"dosage?", false},
	}
	for _, c := range cases {
		if got := ShouldUseContext(c.question); got != c.want {
			t.Errorf("ShouldUseContext(%q) = %v, want %v", c.question, got, c.want)
		}
	}
}

func TestAnswerGroundsOnSnippets(t *testing.T) {
	gen := &stubGenerator{reply: "Your lisinopril dose was increased to 20mg."}
	a := New(gen, 3)
	docs := []retrieval.Document{{
		ID:   "visit-2026-08",
		Name: "visit.txt",
		Text: "The patient's lisinopril dosage was increased from 10mg to 20mg daily due to persistent hypertension. Follow up in two weeks.",
	}}
	res, err := a.Answer(context.Background(), "What is my current lisinopril dosage", docs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.ContextUsed {
		t.Fatal("expected snippet context for a medication question")
	}
	if len(res.Citations) == 0 || !strings.HasPrefix(res.Citations[0], "doc:visit-2026-08 ") {
		t.Fatalf("expected doc-tagged citations, got %v", res.Citations)
	}
	if !strings.Contains(gen.prompts[0], "from your notes:") {
		t.Fatal("prompt should present snippets as notes")
	}
	if !strings.Contains(gen.prompts[0], "lisinopril") {
		t.Fatal("prompt should carry snippet text")
	}
}

func TestAnswerMasksIdentifiersInPrompt(t *testing.T) {
	gen := &stubGenerator{reply: "Your records are on file."}
	a := New(gen, 3)
	docs := []retrieval.Document{{
		ID:   "intake",
		Text: "MRN: 4455123. The patient reported no new symptoms since the last visit and continues current treatment.",
	}}
	_, err := a.Answer(context.Background(), "What symptoms did I report at my visit", docs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gen.prompts[0], "4455123") {
		t.Fatal("record identifier leaked into the prompt")
	}
}

func TestAnswerSkipsContextForSmallTalk(t *testing.T) {
	gen := &stubGenerator{reply: "Hello! How can I help with your documents?"}
	a := New(gen, 3)
	docs := []retrieval.Document{{ID: "d", Text: "Some medical text about medication dosage."}}
	res, err := a.Answer(context.Background(), "hello", docs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContextUsed {
		t.Fatal("small talk should not pull document context")
	}
	if len(res.Citations) != 0 {
		t.Fatalf("expected no citations, got %v", res.Citations)
	}
}

func TestAnswerCleansReply(t *testing.T) {
	gen := &stubGenerator{reply: "Snippet 1 says your dose changed.\nBest,\nYour Assistant"}
	a := New(gen, 3)
	docs := []retrieval.Document{{ID: "d", Text: "The medication dosage was adjusted at the last appointment per the cardiologist."}}
	res, err := a.Answer(context.Background(), "Was my medication dosage changed recently", docs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(res.Answer, "Snippet") || strings.Contains(res.Answer, "Your Assistant") {
		t.Fatalf("answer not cleaned: %q", res.Answer)
	}
}

func TestAnswerPropagatesGatewayError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	a := New(&stubGenerator{err: boom}, 3)
	_, err := a.Answer(context.Background(), "What medication am I taking", nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected gateway error to propagate, got %v", err)
	}
}

func TestAnswerExpandsQueryFromHistory(t *testing.T) {
	gen := &stubGenerator{reply: "It was prescribed for hypertension."}
	a := New(gen, 3)
	docs := []retrieval.Document{{
		ID:   "d",
		Text: "Lisinopril prescribed for hypertension management. Patient tolerating medication well with no reported side effects.",
	}}
	history := []retrieval.Message{
		{Role: "user", Content: "Tell me about my lisinopril prescription"},
		{Role: "assistant", Content: "You were started on lisinopril."},
	}
	res, err := a.Answer(context.Background(), "Why was that medication prescribed to me", docs, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.ContextUsed {
		t.Fatal("expected context when history supplies the drug name")
	}
	if !strings.Contains(gen.prompts[0], "hypertension") {
		t.Fatal("expected snippet matched via conversation keywords")
	}
}
