package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, delete or watch the PDFs uploaded to the backend.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents and their status",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]...",
	Short: "Delete documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentsDelete,
}

var documentsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow document status changes",
	Long: `Poll the backend and print a line whenever a document appears, changes
status or is removed. Stops on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runDocumentsWatch,
}

var documentsJSON bool

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsWatchCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Registry == nil {
		return errNotConfigured("document registry")
	}

	if err := svc.Registry.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	docs := svc.Registry.Documents()

	if documentsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s  %-10s %s\n", docs[i].ID, docs[i].StatusLabel(), docs[i].DisplayName())
		if meta := documentMeta(docs[i]); meta != "" {
			cmd.Printf("      %s\n", meta)
		}
		if docs[i].Status == domain.StatusFailed && docs[i].Error != nil {
			cmd.Printf("      Error: %s\n", *docs[i].Error)
		}
	}

	cmd.Printf("\nTotal: %d documents, %d ready\n", len(docs), len(svc.Registry.Ready()))
	return nil
}

func documentMeta(d domain.Document) string {
	var parts []string
	if year := d.Year(); year != "" {
		parts = append(parts, year)
	}
	if pages := d.Pages(); pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", pages))
	}
	return strings.Join(parts, " · ")
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.Registry == nil {
		return errNotConfigured("document registry")
	}

	for _, id := range args {
		if err := svc.Registry.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
		cmd.Printf("Deleted %s\n", id)
	}
	return nil
}

func runDocumentsWatch(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Registry == nil {
		return errNotConfigured("document registry")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	updates := svc.Registry.Subscribe()
	done := make(chan error, 1)
	go func() { done <- svc.Registry.Run(ctx) }()

	seen := map[string]domain.DocumentStatus{}
	for {
		select {
		case <-ctx.Done():
			svc.Registry.Stop()
			<-done
			return nil
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("watching documents: %w", err)
			}
			return nil
		case <-updates:
			printChanges(cmd, seen, svc.Registry.Documents())
		}
	}
}

// printChanges prints the difference between seen and docs, then updates seen.
func printChanges(cmd *cobra.Command, seen map[string]domain.DocumentStatus, docs []domain.Document) {
	current := make(map[string]bool, len(docs))
	for i := range docs {
		d := docs[i]
		current[d.ID] = true
		prev, known := seen[d.ID]
		switch {
		case !known:
			cmd.Printf("+ %s  %-10s %s\n", d.ShortID(), d.StatusLabel(), d.DisplayName())
		case prev != d.Status:
			cmd.Printf("~ %s  %-10s %s\n", d.ShortID(), d.StatusLabel(), d.DisplayName())
		}
		seen[d.ID] = d.Status
	}
	for id := range seen {
		if !current[id] {
			cmd.Printf("- %s\n", domain.ShortID(id))
			delete(seen, id)
		}
	}
	logger.Debug("documents: %d in snapshot", len(docs))
}

// refreshQuietly refreshes the registry, logging instead of failing. Commands
// that only need the registry for validation use it.
func refreshQuietly(ctx context.Context) {
	if svc == nil || svc.Registry == nil {
		return
	}
	if err := svc.Registry.Refresh(ctx); err != nil {
		logger.Warn("refresh documents: %v", err)
	}
}
