package cmd

import (
	"fmt"

	"github.com/bnema/parent-portal/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pp version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pp %s\n", version.Version)
			return err
		},
	}
}
