package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/spritefield/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or write persistent preferences",
	Long: `Read or write persistent preferences.

Known keys:
  aspect_ratio          free, square, landscape, portrait, classic or custom
  background_treatment  auto, solid, palette or black
  black_background      true or false`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			v, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("setting %q is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}
		for _, k := range store.Keys() {
			v, _ := store.Get(k)
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Set(args[0], args[1])
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(args[0])
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsUnsetCmd)
}
