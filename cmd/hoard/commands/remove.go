package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/hoard/internal/report"
)

// remove -f domains.txt | -d example.com: remove domains from the collection.
func removeCmd() *cobra.Command {
	var (
		files  []string
		domain string
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove domains from the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 && domain == "" {
				return fmt.Errorf("either --file or --domain is required")
			}

			var (
				summary report.RemoveSummary
				err     error
			)
			if len(files) > 0 {
				summary, err = mgr.RemoveFiles(cmd.Context(), files)
			} else {
				summary, err = mgr.Remove(cmd.Context(), []string{domain})
			}

			if werr := report.WriteRemoveSummary(os.Stdout, summary); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "file containing domains to remove (repeatable)")
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "single domain to remove")
	cmd.MarkFlagsMutuallyExclusive("file", "domain")
	return cmd
}
