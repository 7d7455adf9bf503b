package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// projects: list named project collections.
func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List known project collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := mgr.Projects(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range projects {
				fmt.Println(name)
			}
			return nil
		},
	}
}
