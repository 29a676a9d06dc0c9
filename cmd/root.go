package cmd

import (
	"github.com/spf13/cobra"
	"github.com/taoky/memstat/pkg/config"
)

func showHelp(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func RootCmd() *cobra.Command {
	var configPath string
	rootCmd := reportCmd()
	rootCmd.Use = "memstat [filename]"
	rootCmd.Short = "Per-node cache hit rate and latency report for memory access traces"
	rootCmd.Aliases = nil
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: memstat.* in ./etc or .)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return config.ApplyFlags(v, cmd.Flags())
	}
	rootCmd.AddCommand(
		reportCmd(),
		grepCmd(),
		listCmd(),
	)
	return rootCmd
}
