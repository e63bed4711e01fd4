// internal/render/summary.go
// Package render turns structured summaries and raw model answers into the
// markdown shown to the user.
package render

import (
	"strings"

	"github.com/medivise/medivise/internal/summarize"
)

// maxBulletsPerSection caps how many bullets a single section may show.
const maxBulletsPerSection = 8

// sectionOrder is the fixed display order. Sections not listed here render
// after the known ones, in input order.
var sectionOrder = []string{
	"Summary",
	"Findings",
	"What It Means",
	"Key Medications",
	"Important Instructions Or Precautions",
	"Warnings Or Side Effects",
	"Red Flags",
	"Next Steps",
	"Key Highlights",
}

// RenderSummary formats a summary as markdown with bolded section headings.
// Empty sections are omitted, except Next Steps which always renders so the
// reader never misses a follow-up block.
func RenderSummary(s summarize.Summary) string {
	byTitle := map[string]summarize.Section{}
	var extras []summarize.Section
	known := map[string]bool{}
	for _, t := range sectionOrder {
		known[t] = true
	}
	for _, sec := range s.Sections {
		if known[sec.Title] {
			if existing, ok := byTitle[sec.Title]; ok {
				existing.Bullets = append(existing.Bullets, sec.Bullets...)
				byTitle[sec.Title] = existing
			} else {
				byTitle[sec.Title] = sec
			}
			continue
		}
		extras = append(extras, sec)
	}

	var b strings.Builder
	for _, title := range sectionOrder {
		sec, ok := byTitle[title]
		if title == "Next Steps" {
			writeSection(&b, title, sec.Bullets)
			continue
		}
		if !ok || len(sec.Bullets) == 0 {
			continue
		}
		writeSection(&b, title, sec.Bullets)
	}
	for _, sec := range extras {
		if len(sec.Bullets) == 0 {
			continue
		}
		writeSection(&b, sec.Title, sec.Bullets)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, bullets []string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("**" + title + ":**\n")
	seen := map[string]bool{}
	count := 0
	for _, bullet := range bullets {
		text := strings.TrimSpace(bullet)
		key := strings.ToLower(strings.Join(strings.Fields(text), " "))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		b.WriteString("- " + text + "\n")
		count++
		if count >= maxBulletsPerSection {
			break
		}
	}
}
