package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file.pdf]...",
	Short: "Upload PDFs for processing",
	Long: `Upload one or more PDFs. Each upload returns a document id immediately;
the backend then processes the document and it becomes ready for questions.
Use "copilot documents watch" to follow processing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.Upload == nil {
		return errNotConfigured("upload")
	}

	failed := 0
	for _, path := range args {
		id, err := svc.Upload.UploadFile(cmd.Context(), path)
		if err != nil {
			cmd.PrintErrf("Failed: %v\n", err)
			failed++
			continue
		}
		cmd.Printf("Uploaded %s as %s\n", filepath.Base(path), id)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}
