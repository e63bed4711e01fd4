package chat

import (
	"context"

	"github.com/medivise/medivise/internal/appconfig"
	"github.com/medivise/medivise/internal/retrieval"
)

// Run starts the chat UI over the given documents.
func Run(
	cfg *appconfig.Config,
	docs []retrieval.Document,
	startGUI func(context.Context, *appconfig.Config, []retrieval.Document, context.CancelFunc),
) {
	ctx, cancel := context.WithCancel(context.Background())
	startGUI(ctx, cfg, docs, cancel)
}
