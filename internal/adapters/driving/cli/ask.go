package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your papers",
	Long: `Ask a question answered from the uploaded papers. The answer lists the
pages it cites.

Use --doc to limit retrieval to specific ready documents; without it every
document is searched.

Examples:
  copilot ask "What datasets were used?"
  copilot ask --doc 3f2a... --doc 9b1c... "How do the methods differ?"
  copilot ask --json "Summarise the limitations"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var (
	askDocs     []string
	askJSON     bool
	askSnippets bool
)

// askResult is the JSON form of an answer.
type askResult struct {
	Question  string            `json:"question"`
	Scope     []string          `json:"scope"`
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

func init() {
	askCmd.Flags().StringArrayVarP(&askDocs, "doc", "d", nil, "limit retrieval to this document id (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVarP(&askSnippets, "snippets", "s", false, "print the cited text under each source")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.Conversation == nil || svc.Selection == nil {
		return errNotConfigured("conversation")
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	if err := scopeTo(cmd, askDocs); err != nil {
		return err
	}

	turn, ok := svc.Conversation.Begin(question)
	if !ok {
		return errors.New("a question is already in progress")
	}
	result := svc.Conversation.Resolve(cmd.Context(), turn)
	svc.Conversation.Complete(result)
	if result.Err != nil {
		return fmt.Errorf("failed to get an answer: %w", result.Err)
	}
	resp := result.Response

	if askJSON {
		out := askResult{
			Question:  question,
			Scope:     svc.Selection.ScopedDocIDs(),
			Answer:    resp.Answer,
			Citations: resp.Citations,
		}
		if out.Citations == nil {
			out.Citations = []domain.Citation{}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := cmd.OutOrStdout()
	cmd.Println(renderMarkdown(w, resp.Answer))

	if len(resp.Citations) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, c := range resp.Citations {
		cmd.Printf("  [%d] %s · p. %d\n", i+1, c.Title(), c.Page)
		if svc.PDF != nil {
			cmd.Printf("      %s\n", svc.PDF.URL(domain.PDFTarget{DocID: c.DocID, Page: max(c.Page, 1)}))
		}
		if askSnippets && strings.TrimSpace(c.Content) != "" {
			cmd.Println(block(w, c.Content, 6))
		}
	}
	return nil
}

// scopeTo limits the conversation to ids. Unknown or unready ids fail.
func scopeTo(cmd *cobra.Command, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	refreshQuietly(cmd.Context())

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	svc.Selection.ClearScope()
	for _, id := range unique {
		if err := svc.Selection.ToggleScope(id); err != nil {
			return fmt.Errorf("cannot scope to %s: %w", id, err)
		}
	}
	return nil
}
