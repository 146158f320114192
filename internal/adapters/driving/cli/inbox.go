package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/inbox"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox [dir]",
	Short: "Upload PDFs dropped into a directory",
	Long: `Watch a directory and upload every PDF copied into it. A file is uploaded
once it has stopped changing, and only once per run. Hidden files and
subdirectories are ignored. Stops on Ctrl+C.

Examples:
  # Upload new downloads as they arrive
  copilot inbox ~/Downloads/papers

  # Upload what is already there, then keep watching
  copilot inbox --existing ~/Downloads/papers`,
	Args: cobra.ExactArgs(1),
	RunE: runInbox,
}

var inboxExisting bool

func init() {
	inboxCmd.Flags().BoolVar(&inboxExisting, "existing", false, "upload PDFs already in the directory first")
	rootCmd.AddCommand(inboxCmd)
}

func runInbox(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.Inbox == nil {
		return errNotConfigured("inbox")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := func(r domain.InboxResult) {
		if r.Err != nil {
			cmd.PrintErrf("Failed: %v\n", r.Err)
			return
		}
		cmd.Printf("Uploaded %s as %s\n", filepath.Base(r.Path), r.DocID)
	}

	watcher := inbox.New(args[0])
	if inboxExisting {
		paths, err := watcher.Existing()
		if err != nil {
			return err
		}
		svc.Inbox.UploadAll(ctx, paths, report)
	}

	events, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	defer watcher.Close()

	cmd.Printf("Watching %s for PDFs (Ctrl+C to stop)\n", watcher.Dir())
	if err := svc.Inbox.Run(ctx, events, report); err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	return nil
}
