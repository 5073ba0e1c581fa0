package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/config"
	"github.com/utilkit-labs/utilkit/internal/transform"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write user settings stored at ~/.utilkit/config.yaml.

Keys:
  transform  type strip strategy for untyped projects (auto, esbuild, regex)
  registry   path to a registry.json used instead of the library's`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		switch key {
		case config.KeyTransform:
			if _, err := transform.New(transform.Strategy(value), logger); err != nil {
				return err
			}
		case config.KeyRegistry:
		default:
			return fmt.Errorf("unknown config key %q (want %s or %s)", key, config.KeyTransform, config.KeyRegistry)
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}
