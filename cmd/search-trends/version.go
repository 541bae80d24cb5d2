package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of search-trends",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "search-trends %s\n", version); err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		return nil
	},
}

func init() {
	registeredCmds = append(registeredCmds, versionCmd)
}
