package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cube2222/octotype/extensions"
)

var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "List the known extension types.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"id", "storage", "description"})
		for _, describer := range registry.List() {
			switch describer := describer.(type) {
			case *extensions.Declared:
				table.Append([]string{string(describer.ID()), describer.Storage.String(), describer.Description})
			default:
				table.Append([]string{string(describer.ID()), "", "built-in"})
			}
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extensionsCmd)
}
