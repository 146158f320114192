// Package cli provides the copilot command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// Options are the root flags that shape how services are built.
type Options struct {
	// BackendURL overrides backend.url from the config file.
	BackendURL string

	// ConfigDir overrides the ~/.copilot config directory.
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Services holds the core services the commands run against.
type Services struct {
	Registry     driving.DocumentRegistry
	Conversation driving.Conversation
	Citations    driving.CitationResolver
	Claims       driving.ClaimsService
	Selection    driving.SelectionService
	Coordinator  driving.ViewCoordinator
	PDF          driving.PDFService
	Upload       driving.UploadService
	Inbox        driving.Inbox
	Settings     driving.SettingsService

	// NewConversation creates independent conversations for the MCP server.
	NewConversation mcp.ConversationFactory

	// LogFile receives log output while the TUI owns the terminal.
	LogFile string
}

// Bootstrap builds services from the root flags. It runs once, before the
// first command that needs services.
type Bootstrap func(opts Options) (*Services, error)

var (
	rootOpts  Options
	bootstrap Bootstrap
	svc       *Services
)

var rootCmd = &cobra.Command{
	Use:   "copilot",
	Short: "Research copilot for your papers",
	Long: `copilot answers questions over the PDFs you upload to a research backend.

Answers cite the pages they draw on; claims extracted from every paper can be
browsed by category; pages open in the terminal or the system PDF viewer.

Run without arguments to start the interactive workspace.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOpts.BackendURL, "backend", "", "backend URL (overrides backend.url)")
	flags.StringVar(&rootOpts.ConfigDir, "config-dir", "", "config directory (default ~/.copilot)")
	flags.BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services from the root flags.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	svc = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(rootOpts.Verbose)
	if svc != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(rootOpts)
	if err != nil {
		return fmt.Errorf("starting copilot: %w", err)
	}
	svc = s
	return nil
}

// errNotConfigured reports a service the running binary was built without.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
