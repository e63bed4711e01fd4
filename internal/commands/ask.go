// internal/commands/ask.go
package medivise

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/medivise/medivise/internal/docstore"
	"github.com/medivise/medivise/internal/llm"
	"github.com/medivise/medivise/internal/metrics"
	"github.com/medivise/medivise/internal/qa"
	"github.com/medivise/medivise/internal/retrieval"
	"github.com/medivise/medivise/internal/util"
	"github.com/spf13/cobra"
)

var askDocs []string

var cite = color.New(color.FgCyan).SprintFunc()

// askCmd implements 'ask', which answers a single question against the
// given documents.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long:  `The 'ask' command answers a one-off question, grounding the answer on snippets retrieved from the documents passed with --doc.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		question := strings.Join(args, " ")

		var docs []retrieval.Document
		if len(askDocs) > 0 {
			loaded, err := docstore.LoadPaths(askDocs)
			if err != nil {
				return err
			}
			docs = loaded
		}

		client := llm.New(cfg)
		aggregator := metrics.NewAggregator()
		var gen qa.Generator = client
		if cfg.Metrics {
			gen = metrics.NewGenerator(client, aggregator)
		}

		answerer := qa.New(gen, cfg.SnippetBudget())
		res, err := answerer.Answer(cmd.Context(), question, docs, nil)
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}
		if cfg.Debug {
			pp.Println(res)
		}

		fmt.Fprintln(cmd.OutOrStdout(), util.WrapToWidth(res.Answer, 100))
		if len(res.Citations) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", cite("sources:"), strings.Join(res.Citations, ", "))
		}

		if cfg.Metrics {
			fmt.Fprintln(cmd.ErrOrStderr(), aggregator.Summary())
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringSliceVar(&askDocs, "doc", nil, "document file or directory (repeatable)")
	rootCmd.AddCommand(askCmd)
}
