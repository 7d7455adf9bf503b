package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/hoard/pkg/confirm"
)

// delete-all [--confirm]: drop the entire collection. Prompts unless
// --confirm is given.
func deleteAllCmd() *cobra.Command {
	var skipPrompt bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete all domains in the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := skipPrompt
			if !confirmed {
				ok, err := confirm.Prompt(os.Stdin, os.Stderr,
					"Are you sure you want to delete ALL domains from the collection?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(os.Stderr, "Delete operation cancelled")
					return nil
				}
				confirmed = true
			}

			existed, err := mgr.DeleteAll(cmd.Context(), confirmed)
			if err != nil {
				return err
			}
			if !existed {
				fmt.Fprintln(os.Stderr, "No domains existed in the collection")
				return nil
			}
			fmt.Println("All domains deleted successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPrompt, "confirm", false, "skip confirmation prompt")
	return cmd
}
