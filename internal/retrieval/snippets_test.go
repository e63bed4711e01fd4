package retrieval

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractSnippetsOrdersByDensity(t *testing.T) {
	// Two disjoint regions mention "fever"; the second mentions it three
	// times within one window and must rank first.
	sparse := "The patient reported a mild fever overnight." + strings.Repeat(" general notes follow.", 60)
	dense := "Recurrent fever episodes: fever at 38C, fever again at 39C after dosing."
	text := sparse + dense

	snippets := ExtractSnippets(text, "fever", 5, 450)
	if len(snippets) < 2 {
		t.Fatalf("expected at least 2 snippets, got %d", len(snippets))
	}
	if snippets[0].Score <= snippets[1].Score {
		t.Fatalf("expected descending scores, got %f then %f", snippets[0].Score, snippets[1].Score)
	}
	if !strings.Contains(snippets[0].Text, "Recurrent fever") {
		t.Fatalf("expected dense window first, got %q", snippets[0].Text)
	}
}

func TestExtractSnippetsNonOverlappingWindows(t *testing.T) {
	// Matches closer than the window to a selected match are skipped.
	text := "fever fever fever" + strings.Repeat(" filler", 200) + " fever"
	snippets := ExtractSnippets(text, "fever", 10, 450)
	if len(snippets) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(snippets))
	}
}

func TestExtractSnippetsCitationOffsets(t *testing.T) {
	text := strings.Repeat("x", 1000) + " fever " + strings.Repeat("y", 1000)
	snippets := ExtractSnippets(text, "fever", 1, 450)
	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}
	if snippets[0].Citation != "L551-1456" {
		t.Fatalf("unexpected citation %q", snippets[0].Citation)
	}
}

func TestExtractSnippetsEmptyQuery(t *testing.T) {
	if got := ExtractSnippets("some text", "  ", 5, 450); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
}

func TestExtractFromDocumentsGlobalCap(t *testing.T) {
	var docs []Document
	for d := 0; d < 3; d++ {
		var b strings.Builder
		for i := 0; i < 4; i++ {
			// Distinct filler keeps every snippet unique after normalization.
			fmt.Fprintf(&b, "doc %d region %d fever note.", d, i)
			b.WriteString(strings.Repeat(fmt.Sprintf(" filler%d%d", d, i), 120))
		}
		docs = append(docs, Document{ID: fmt.Sprintf("%d", d+1), Text: b.String()})
	}

	snippets := ExtractFromDocuments(docs, "fever", 3)
	if len(snippets) > MaxGlobalSnippets {
		t.Fatalf("global cap exceeded: %d", len(snippets))
	}
	if len(snippets) != MaxGlobalSnippets {
		t.Fatalf("expected %d snippets from 3 documents with 4 regions each, got %d", MaxGlobalSnippets, len(snippets))
	}

	seen := make(map[string]struct{})
	for _, s := range snippets {
		key := NormalizeText(s.Text)
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate normalized snippet text: %q", s.Text)
		}
		seen[key] = struct{}{}
		if !strings.HasPrefix(s.Citation, "doc:") {
			t.Fatalf("expected doc-tagged citation, got %q", s.Citation)
		}
	}
}

func TestExtractFromDocumentsSkipsEmptyText(t *testing.T) {
	docs := []Document{
		{ID: "1", Text: "   "},
		{ID: "2", Text: "patient fever chart"},
	}
	snippets := ExtractFromDocuments(docs, "fever", 3)
	if len(snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(snippets))
	}
	if !strings.HasPrefix(snippets[0].Citation, "doc:2 ") {
		t.Fatalf("unexpected citation %q", snippets[0].Citation)
	}
}

func TestKeywordsFromConversation(t *testing.T) {
	history := []Message{
		{Role: "assistant", Content: "Your labs look stable."},
		{Role: "user", Content: "Is my medication dose too high? The pain got worse."},
		{Role: "user", Content: "Also when is my next appointment?"},
	}
	keywords := KeywordsFromConversation(history)
	if len(keywords) == 0 || len(keywords) > 10 {
		t.Fatalf("unexpected keyword count %d", len(keywords))
	}
	want := map[string]bool{"medication": false, "dose": false, "appointment": false}
	for _, kw := range keywords {
		if _, ok := want[kw]; ok {
			want[kw] = true
		}
	}
	for kw, found := range want {
		if !found {
			t.Fatalf("expected keyword %q in %v", kw, keywords)
		}
	}
}

func TestKeywordsFromConversationIgnoresAssistantTurns(t *testing.T) {
	history := []Message{{Role: "assistant", Content: "check your medication dosage"}}
	if kws := KeywordsFromConversation(history); len(kws) != 0 {
		t.Fatalf("expected no keywords from assistant turns, got %v", kws)
	}
}
