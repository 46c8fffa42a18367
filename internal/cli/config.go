package cli

import (
	"fmt"

	"github.com/mgpai22/danmaku2ass/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print an annotated sample configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), config.SampleConfig())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}

		out, err := cfg.Encode()
		if err != nil {
			return err
		}

		if exists {
			fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", path)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "# no config file found, showing defaults")
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSampleCmd)
	configCmd.AddCommand(configShowCmd)
}
