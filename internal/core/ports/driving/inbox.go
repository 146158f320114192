package driving

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// Inbox uploads PDFs that appear in a watched directory.
type Inbox interface {
	// UploadAll uploads each path not already uploaded by this inbox.
	UploadAll(ctx context.Context, paths []string, report func(domain.InboxResult))

	// Run uploads paths received on events once they have stopped changing.
	// It returns when ctx is done or events is closed; pending paths are
	// uploaded immediately when events closes.
	Run(ctx context.Context, events <-chan string, report func(domain.InboxResult)) error
}
