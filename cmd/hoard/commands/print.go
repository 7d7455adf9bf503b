package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// print: write all domains to stdout, sorted.
func printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print all domains in the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			domains, err := mgr.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, domain := range domains {
				fmt.Println(domain)
			}
			return nil
		},
	}
}
