package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/hoard/internal/report"
)

// add -f domains.txt [-f more.txt] [--no-validate]: ingest domain files.
func addCmd() *cobra.Command {
	var (
		files      []string
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add domains from one or more files",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := mgr.AddFiles(cmd.Context(), files, !noValidate)

			// The summary is printed even under partial failure so the
			// caller can reconcile what was committed.
			if werr := report.WriteAddSummary(os.Stdout, summary); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "file containing domains, one per line (repeatable)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip domain validation")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
