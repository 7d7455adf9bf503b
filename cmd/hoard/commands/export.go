package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/hoard/internal/manager"
)

// export -f out.txt [--format text|json]: write a snapshot of the collection.
func exportCmd() *cobra.Command {
	var (
		outFile    string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export domains to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := manager.ParseFormat(formatName)
			if err != nil {
				return err
			}

			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("failed to create output file %s: %w", outFile, err)
			}
			defer f.Close()

			snap, err := mgr.Export(cmd.Context(), f, format)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Exported %d domains to %s (%s format)\n", snap.DomainCount, outFile, format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "output file")
	cmd.Flags().StringVar(&formatName, "format", "text", "export format (text or json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
