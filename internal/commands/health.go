// internal/commands/health.go
package medivise

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/medivise/medivise/internal/llm"
	"github.com/spf13/cobra"
)

var healthy = color.New(color.FgGreen).SprintFunc()
var unhealthy = color.New(color.FgRed).SprintFunc()

// healthCmd implements 'health', which checks that the generation service is
// reachable and reports whether the configured model is available.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the generation service",
	Long:  `The 'health' command probes the configured generation service and reports reachability, the configured model, and the models the service has available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := llm.New(cfg)

		h, err := client.CheckHealth(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", unhealthy("unreachable"), cfg.ServiceURL(), err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", healthy("ok"), h.BaseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "  configured model: %s\n", h.Model)
		if len(h.AvailableModels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "  no models reported by the service")
			return nil
		}
		found := false
		for _, m := range h.AvailableModels {
			marker := " "
			if m == h.Model {
				marker = "*"
				found = true
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", marker, m)
		}
		if !found {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s configured model not present on the service\n", unhealthy("warning:"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
