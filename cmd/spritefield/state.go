package main

import (
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the starting state as YAML",
	Long: `Print the normalized starting state. Without --state this is the
default state, a convenient template for new state files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadState()
		if err != nil {
			return err
		}
		return st.WriteYAML(cmd.OutOrStdout())
	},
}
