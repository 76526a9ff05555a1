package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cube2222/octotype/serialization"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <spec.yml>",
	Short: "Serialize the type described by a YAML file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readType(cmd, args[0])
		if err != nil {
			return err
		}

		buf := serialization.Encode(t)
		text, err := encodeText(buf)
		if err != nil {
			return err
		}
		logger.Debug("encoded type", "type", t.String(), "bytes", len(buf))

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVar(&format, "format", "", "Output encoding, hex or base64. Taken from the config by default.")
	rootCmd.AddCommand(encodeCmd)
}
