package cmd

import (
	"io"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/taoky/memstat/pkg/analyze"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <item>",
		Short: "List various items",
		Args:  cobra.NoArgs,
		RunE:  showHelp,
	}
	cmd.AddCommand(listFormatsCmd())
	return cmd
}

// plainTable renders left-aligned columns with no borders or rules.
func plainTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoWrap(tw.WrapNone),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithPadding(tw.Padding{Right: "  ", Overwrite: true}),
		tablewriter.WithRendition(tw.Rendition{
			Borders:  tw.BorderNone,
			Settings: tw.Settings{Lines: tw.LinesNone, Separators: tw.SeparatorsNone},
		}),
	)
}

// formatRows returns one row per format, aliases folded into the row of
// the format they point to. The default format is marked with "*".
func formatRows(formats []analyze.OutputMeta, withAliases bool) [][]string {
	aliases := make(map[string][]string)
	for _, f := range formats {
		if f.AliasOf != "" {
			aliases[f.AliasOf] = append(aliases[f.AliasOf], f.Name)
		}
	}
	defaultFormat := analyze.DefaultConfig().Format.String()

	var rows [][]string
	for _, f := range formats {
		if f.AliasOf != "" || (f.Hidden && !withAliases) {
			continue
		}
		name := f.Name
		if name == defaultFormat {
			name += "*"
		}
		row := []string{name, f.Description}
		if withAliases {
			slices.Sort(aliases[f.Name])
			row = slices.Insert(row, 1, strings.Join(aliases[f.Name], ","))
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return rows
}

func listFormatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List available report formats (* marks the default)",
		Args:  cobra.NoArgs,
	}
	var all bool
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also show format aliases")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		table := plainTable(cmd.OutOrStdout())
		if all {
			table.Header("Name", "Aliases", "Description")
		} else {
			table.Header("Name", "Description")
		}
		for _, row := range formatRows(analyze.AllOutputs(), all) {
			if err := table.Append(row); err != nil {
				return err
			}
		}
		return table.Render()
	}
	return cmd
}
