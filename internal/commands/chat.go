// internal/commands/chat.go
package medivise

import (
	"fmt"

	"github.com/medivise/medivise/cli"
	"github.com/medivise/medivise/internal/chat"
	"github.com/medivise/medivise/internal/docstore"
	"github.com/spf13/cobra"
)

var chatDocs []string

// startGUI is a function alias to cli.StartGUI for starting the chat interface.
var startGUI = cli.StartGUI

// chatCmd represents the 'chat' command, which starts an interactive chat session.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat session about your documents",
	Long:  `The 'chat' command starts an interactive session where questions are answered using snippets retrieved from the documents passed with --doc.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := docstore.LoadPaths(chatDocs)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("chat needs at least one document, pass --doc")
		}
		chat.Run(GetConfig(), docs, startGUI)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringSliceVar(&chatDocs, "doc", nil, "document file or directory (repeatable)")
	rootCmd.AddCommand(chatCmd)
}
