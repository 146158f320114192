package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "List claims extracted from your papers",
	Long: `List the claims the backend extracted from every processed paper,
grouped by document.

Categories: finding, method, limitation, background.`,
	Args: cobra.NoArgs,
	RunE: runClaims,
}

var (
	claimsCategory string
	claimsDoc      string
	claimsJSON     bool
)

func init() {
	claimsCmd.Flags().StringVarP(&claimsCategory, "category", "c", "", "only claims of this category")
	claimsCmd.Flags().StringVarP(&claimsDoc, "doc", "d", "", "only claims from this document id")
	claimsCmd.Flags().BoolVar(&claimsJSON, "json", false, "output claims as JSON")
	rootCmd.AddCommand(claimsCmd)
}

func runClaims(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Claims == nil {
		return errNotConfigured("claims")
	}

	category, err := domain.ParseClaimCategory(claimsCategory)
	if err != nil {
		return err
	}

	if err := svc.Claims.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load claims: %w", err)
	}

	var groups []domain.ClaimGroup
	for _, g := range svc.Claims.Groups(category) {
		if claimsDoc == "" || g.DocID == claimsDoc {
			groups = append(groups, g)
		}
	}

	if claimsJSON {
		claims := []domain.Claim{}
		for _, g := range groups {
			claims = append(claims, g.Claims...)
		}
		data, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format claims: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(groups) == 0 {
		if category == domain.CategoryAll {
			cmd.Println("No claims extracted yet.")
		} else {
			cmd.Printf("No %s claims.\n", strings.ToLower(category.Label()))
		}
		return nil
	}

	w := cmd.OutOrStdout()
	total := 0
	for _, g := range groups {
		name := g.Filename
		if name == "" {
			name = domain.ShortID(g.DocID)
		}
		cmd.Printf("%s (%d)\n", name, len(g.Claims))
		for _, c := range g.Claims {
			cmd.Printf("  [%s] p. %d\n", c.Category.Label(), c.Page)
			cmd.Println(block(w, c.Text, 4))
			if c.SourceQuote != nil && strings.TrimSpace(*c.SourceQuote) != "" {
				cmd.Println(block(w, fmt.Sprintf("“%s”", strings.TrimSpace(*c.SourceQuote)), 6))
			}
		}
		cmd.Println()
		total += len(g.Claims)
	}
	cmd.Printf("Total: %d claims in %d documents\n", total, len(groups))
	return nil
}
