package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf [doc-id]",
	Short: "Print the text of a document page",
	Long: `Print the extracted text of one page of a document, or open the page in
the system PDF viewer with --open.`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

var (
	pdfPage int
	pdfOpen bool
)

func init() {
	pdfCmd.Flags().IntVarP(&pdfPage, "page", "p", 1, "1-based page number")
	pdfCmd.Flags().BoolVarP(&pdfOpen, "open", "o", false, "open the page in the system viewer")
	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.PDF == nil {
		return errNotConfigured("pdf")
	}
	if pdfPage < 1 {
		return fmt.Errorf("page must be at least 1: %w", domain.ErrInvalidInput)
	}
	target := domain.PDFTarget{DocID: args[0], Page: pdfPage}

	title := domain.ShortID(target.DocID)
	if svc.Registry != nil {
		refreshQuietly(cmd.Context())
		doc, ok := domain.FindDocument(svc.Registry.Documents(), target.DocID)
		switch {
		case !ok:
			return fmt.Errorf("document %s: %w", target.DocID, domain.ErrNotFound)
		case !doc.Ready():
			return fmt.Errorf("%s is %s: %w", doc.DisplayName(), doc.Status, domain.ErrDocumentNotReady)
		}
		title = doc.DisplayName()
	}

	if pdfOpen {
		if err := svc.PDF.OpenExternal(target); err != nil {
			return fmt.Errorf("failed to open page: %w", err)
		}
		cmd.Printf("Opened %s\n", svc.PDF.URL(target))
		return nil
	}

	page, err := svc.PDF.Render(cmd.Context(), target)
	switch {
	case errors.Is(err, domain.ErrPageOutOfRange):
		return fmt.Errorf("page %d is outside this document", pdfPage)
	case err != nil:
		return fmt.Errorf("failed to load page: %w", err)
	}

	label := fmt.Sprintf("Page %d", target.Page)
	if page.PageCount > 0 {
		label = fmt.Sprintf("Page %d of %d", target.Page, page.PageCount)
	}
	cmd.Printf("%s · %s\n\n", title, label)

	if strings.TrimSpace(page.Text) == "" {
		cmd.Println("No extractable text on this page.")
	} else {
		cmd.Println(block(cmd.OutOrStdout(), page.Text, 0))
	}
	cmd.Printf("\n%s\n", page.URL)
	return nil
}
