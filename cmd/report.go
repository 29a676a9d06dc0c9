package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/taoky/memstat/pkg/analyze"
	"github.com/taoky/memstat/pkg/util"
)

const defaultFilename = "memStats"

func filenameFromArgs(args []string) string {
	if len(args) == 0 {
		return defaultFilename
	}
	return args[0]
}

// closeInto closes c and joins a failure into *err.
func closeInto(err *error, c io.Closer, what string) {
	if cerr := c.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("failed to close %s: %w", what, cerr))
	}
}

func reportWithConfig(cmd *cobra.Command, args []string, config analyze.AnalyzerConfig) (err error) {
	filename := filenameFromArgs(args)
	fmt.Fprintln(cmd.ErrOrStderr(), "Using trace file:", filename)
	cmd.SilenceUsage = true

	analyzer, err := analyze.NewAnalyzer(config, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer closeInto(&err, analyzer, "log output")

	run := func() error {
		return analyzer.AnalyzeFile(filename)
	}
	if config.CPUProfile != "" {
		err = util.RunCPUProfile(config.CPUProfile, run)
	} else {
		err = run()
	}
	if err != nil {
		return err
	}
	if config.MemProfile != "" {
		if err := util.MemProfile(config.MemProfile); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}
	return analyzer.PrintReport(cmd.OutOrStdout())
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report [filename]",
		Aliases: []string{"analyze", "analyse"},
		Short:   "Aggregate a trace file (default \"" + defaultFilename + "\") and print the per-node report",
		Args:    cobra.MaximumNArgs(1),
	}
	config := analyze.DefaultConfig()
	config.InstallFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		// Progress bar defaults to on when stderr is a terminal
		if f, ok := cmd.ErrOrStderr().(*os.File); ok && !cmd.Flags().Changed("progress") {
			config.Progress = util.IsTerminal(int(f.Fd()))
		}
		return reportWithConfig(cmd, args, config)
	}
	return cmd
}
