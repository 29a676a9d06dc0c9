package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taoky/memstat/pkg/grep"
)

func filenamesFromArgs(args []string) []string {
	if len(args) == 0 {
		return []string{defaultFilename}
	}
	return args
}

func grepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grep [filename...]",
		Short: "Print the data lines of a trace that match the filter",
	}
	config := grep.DefaultConfig()
	config.InstallFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		filenames := filenamesFromArgs(args)
		fmt.Fprintln(cmd.ErrOrStderr(), "Using trace files:", filenames)
		cmd.SilenceUsage = true

		g := grep.New(config, cmd.OutOrStdout())
		for _, filename := range filenames {
			if err := g.GrepFile(filename); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd
}
