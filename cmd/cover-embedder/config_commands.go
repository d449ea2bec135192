package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/cover-embedder/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Settings utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(config.Keys()))
			for _, key := range config.Keys() {
				value, err := settings.Get(key)
				if err != nil {
					return err
				}
				rows = append(rows, []string{key, value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "set <key> <value>",
		Short:       "Change a setting and save it",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipSettingsLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment overrides are not written back.
			path := ctx.configPath()
			settings, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := settings.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := settings.Save(path); err != nil {
				return fmt.Errorf("save settings %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the settings file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipSettingsLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ctx.configPath())
			return nil
		},
	}
}
