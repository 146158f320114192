package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/core/services"
)

func testBackend() *tuitest.Backend {
	failed := tuitest.Doc("doc-failed", "broken.pdf", domain.StatusFailed, 0)
	reason := "could not parse PDF"
	failed.Error = &reason
	quote := "BLEU improves by 2.0"

	return &tuitest.Backend{
		Docs: []domain.Document{
			tuitest.Doc("doc-ready-1", "attention.pdf", domain.StatusReady, 15),
			tuitest.Doc("doc-ready-2", "bert.pdf", domain.StatusReady, 16),
			tuitest.Doc("doc-processing", "pending.pdf", domain.StatusProcessing, 0),
			failed,
		},
		Claims: []domain.Claim{
			{ID: 1, DocID: "doc-ready-1", Filename: "attention.pdf", Page: 8, Text: "The Transformer beats recurrent baselines.", Category: domain.CategoryFinding, SourceQuote: &quote},
			{ID: 2, DocID: "doc-ready-1", Filename: "attention.pdf", Page: 3, Text: "Self-attention relates positions.", Category: domain.CategoryMethod},
			{ID: 3, DocID: "doc-ready-2", Filename: "bert.pdf", Page: 5, Text: "Masked language modelling pretrains encoders.", Category: domain.CategoryMethod},
		},
		Answer: &domain.ChatResponse{
			Answer: "Transformers rely on **attention**.",
			Citations: []domain.Citation{
				{DocID: "doc-ready-1", Filename: "attention.pdf", Page: 3, ChunkIndex: 4, Content: "Scaled dot-product attention"},
			},
		},
	}
}

// setupTestServices injects real services over an in-memory backend and
// returns them with a cleanup that restores the command tree.
func setupTestServices() (*tuitest.Services, func()) {
	ts := tuitest.NewServices(testBackend())
	SetServices(&Services{
		Registry:     ts.Registry,
		Conversation: ts.Conversation,
		Citations:    ts.Citations,
		Claims:       ts.Claims,
		Selection:    ts.Selection,
		Coordinator:  ts.Coordinator,
		PDF:          ts.PDF,
		Upload:       ts.Upload,
		Inbox:        services.NewInboxService(ts.Upload, 10*time.Millisecond),
		Settings:     services.NewSettingsService(memory.NewConfigStore()),
		NewConversation: func(scope mcp.Scope) driving.Conversation {
			return services.NewConversationService(ts.Backend, scope, 0)
		},
	})
	return ts, resetCLI
}

func resetCLI() {
	SetServices(nil)
	SetBootstrap(nil)
	rootOpts = Options{}
	resetFlags(rootCmd)
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetContext(context.Background())
}

// resetFlags restores every flag in the tree to its default so one test's
// flags do not leak into the next Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns everything it printed.
func execute(args ...string) (string, error) {
	return executeContext(context.Background(), args...)
}

func executeContext(ctx context.Context, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
