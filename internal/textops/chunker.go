// internal/textops/chunker.go
// Package textops provides character-level text segmentation and locator
// helpers for the summarization pipeline.
package textops

// DefaultMaxChars is the default chunk width used by the summarizer.
const DefaultMaxChars = 3000

// DefaultOverlap is the default number of characters shared between
// neighboring chunks.
const DefaultOverlap = 300

// Chunk is a single window of document text produced by ChunkWithOverlap.
// Offset is the character offset of the chunk start within the source text.
type Chunk struct {
	Index  int
	Text   string
	Offset int
}

// ChunkWithOverlap splits text into ordered, overlapping windows of at most
// maxChars characters. Neighboring chunks share overlap characters so that
// content split mid-sentence at a chunk boundary still appears whole in one
// of them. When the text fits in a single window, exactly one chunk covering
// the whole text is returned. Invalid sizes fall back to the defaults.
func ChunkWithOverlap(text string, maxChars, overlap int) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = DefaultOverlap
		if overlap >= maxChars {
			overlap = maxChars / 10
		}
	}

	n := len(text)
	if n == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	idx := 0
	for start < n {
		end := start + maxChars
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{Index: idx, Text: text[start:end], Offset: start})
		if end == n {
			break
		}
		start = end - overlap
		idx++
	}
	return chunks
}
