package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cube2222/octotype/arrowtypes"
)

var arrowCmd = &cobra.Command{
	Use:   "arrow <spec.yml>",
	Short: "Print the Apache Arrow equivalent of the type described by a YAML file.",
	Long: `Print the Apache Arrow equivalent of the type described by a YAML file.

Records are printed as Arrow schemas, other types as a single Arrow data type.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readType(cmd, args[0])
		if err != nil {
			return err
		}

		if t.IsRecord() {
			schema, err := arrowtypes.ToArrowSchema(t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), schema.String())
			return nil
		}

		arrowType, err := arrowtypes.ToArrow(t)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), arrowType.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(arrowCmd)
}
