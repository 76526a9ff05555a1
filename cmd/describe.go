package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cube2222/octotype/docs"
	"github.com/cube2222/octotype/dtype"
)

var describeCmd = &cobra.Command{
	Use:   "describe <spec.yml>",
	Short: "Explain the type described by a YAML file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readType(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		table := tablewriter.NewWriter(out)
		table.SetColWidth(48)
		table.SetRowLine(false)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"name", "type", "nullable", "extension"})
		if record, ok := t.AsRecord(); ok {
			for i := 0; i < record.Arity(); i++ {
				table.Append(describeRow(record.Name(i), record.FieldAt(i)))
			}
		} else {
			table.Append(describeRow("", t))
		}
		table.Render()

		fmt.Fprintln(out)
		docs.RenderDocumentation(docs.Outline(t, registry), out)
		return nil
	},
}

func describeRow(name string, t dtype.DType) []string {
	extension := ""
	if ext, ok := t.AsExtension(); ok {
		extension = string(ext.ID())
		if description := registry.Describe(ext); description != "" {
			extension += ": " + description
		}
	}
	return []string{name, t.String(), fmt.Sprint(t.IsNullable()), extension}
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
