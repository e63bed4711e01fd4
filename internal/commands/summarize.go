// internal/commands/summarize.go
package medivise

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/medivise/medivise/internal/docstore"
	"github.com/medivise/medivise/internal/llm"
	"github.com/medivise/medivise/internal/metrics"
	"github.com/medivise/medivise/internal/render"
	"github.com/medivise/medivise/internal/summarize"
	"github.com/medivise/medivise/internal/util"
	"github.com/spf13/cobra"
)

var summarizeOut string

var warn = color.New(color.FgYellow).SprintFunc()
var fail = color.New(color.FgRed).SprintFunc()

// summarizeCmd implements 'summarize', which produces a structured summary
// of one or more document files.
var summarizeCmd = &cobra.Command{
	Use:   "summarize [file or directory]...",
	Short: "Summarize medical documents",
	Long:  `The 'summarize' command de-identifies the given documents, summarizes them chunk by chunk with the configured model, and prints the merged summary as markdown.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		docs, err := docstore.LoadPaths(args)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no readable documents under %v", args)
		}

		style := cfg.SummaryStyle()

		client := llm.New(cfg)
		aggregator := metrics.NewAggregator()
		var gen summarize.Generator = client
		if cfg.Metrics {
			gen = metrics.NewGenerator(client, aggregator)
		}

		maxChars, overlap := cfg.Chunking()
		summarizer := summarize.New(gen, maxChars, overlap, cfg.RetryAttempts())

		var parts []string
		for _, doc := range docs {
			summary, err := summarizer.Summarize(cmd.Context(), doc.Text, style)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", fail("skipping"), doc.Name, err)
				continue
			}
			if cfg.Debug {
				pp.Println(summary)
			}
			part := render.RenderSummary(summary)
			if extras := summaryExtras(summary); extras != "" {
				part += "\n\n" + extras
			}
			if len(docs) > 1 {
				part = "# " + doc.Name + "\n\n" + part
			}
			parts = append(parts, part)
			if summary.Degraded {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: model output needed a fallback, summary may be incomplete\n", warn("degraded"), doc.Name)
			}
			if summary.RedactionsApplied {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: identifying details were masked before summarization\n")
			}
		}
		if len(parts) == 0 {
			return fmt.Errorf("no document could be summarized")
		}
		out := combineSummaries(parts)

		if summarizeOut != "" {
			if err := util.WriteFile(summarizeOut, []byte(out+"\n")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", summarizeOut)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}

		if cfg.Metrics {
			fmt.Fprintln(cmd.ErrOrStderr(), aggregator.Summary())
		}
		return nil
	},
}

// summaryExtras renders a quick-reference footer with the medications and
// highlights pulled out of a summary. Empty when the summary has neither.
func summaryExtras(s summarize.Summary) string {
	meds := summarize.MedicationsFromSummary(s)
	highlights := summarize.HighlightsFromSummary(s, 5)
	var b strings.Builder
	if len(meds) > 0 {
		b.WriteString("**Medications:** " + strings.Join(meds, "; "))
	}
	if len(highlights) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("**Highlights:** " + strings.Join(highlights, "; "))
	}
	return b.String()
}

// combineSummaries joins per-document summaries with a horizontal rule.
// Only summaries that actually rendered belong in parts, so a skipped
// document never leaves a stray separator.
func combineSummaries(parts []string) string {
	return strings.Join(parts, "\n\n---\n\n")
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeOut, "out", "", "write the markdown summary to this file")
	rootCmd.AddCommand(summarizeCmd)
}
