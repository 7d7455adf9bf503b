package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// count: print the collection's cardinality.
func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count domains in the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := mgr.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
}
