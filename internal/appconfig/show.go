package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}

	maxChars, overlap := cfg.Chunking()
	fmt.Fprintf(out, "  Model:            %s\n", cfg.ModelName())
	fmt.Fprintf(out, "  Base URL:         %s\n", cfg.ServiceURL())
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Connect Timeout:  %s\n", cfg.ConnectTimeout())
	fmt.Fprintf(out, "  Chunk Size:       %d chars\n", maxChars)
	fmt.Fprintf(out, "  Chunk Overlap:    %d chars\n", overlap)
	fmt.Fprintf(out, "  Max Retries:      %d\n", cfg.RetryAttempts())
	fmt.Fprintf(out, "  Snippets Per Doc: %d\n", cfg.SnippetBudget())
	fmt.Fprintf(out, "  Summary Style:    %s\n", cfg.SummaryStyle())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Metrics:          %v\n", cfg.Metrics)
}
