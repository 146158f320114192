package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive research workspace",
	Long: `Launch the interactive research workspace.

The workspace shows your documents beside three tabs: chat with cited answers,
the claims browser and the PDF page view. The document list refreshes in the
background while the workspace is open.

Controls:
  Tab      - Switch between documents and workspace
  1/2/3    - Chat / Claims / PDF
  Enter    - Send question / Open selection
  Esc      - Browse citations / Back
  Space    - Expand citation / Toggle document scope
  v        - View source page
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	if svc == nil {
		return errNotConfigured("copilot")
	}

	if svc.LogFile != "" {
		restore, logErr := logger.LogToFile(svc.LogFile)
		if logErr != nil {
			return fmt.Errorf("open log file: %w", logErr)
		}
		defer restore()
	}

	ports := &tui.Ports{
		Registry:     svc.Registry,
		Conversation: svc.Conversation,
		Citations:    svc.Citations,
		Claims:       svc.Claims,
		Selection:    svc.Selection,
		Coordinator:  svc.Coordinator,
		PDF:          svc.PDF,
		Upload:       svc.Upload,
	}

	app, err := tui.NewApp(cmd.Context(), ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	logger.Section("tui")
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
