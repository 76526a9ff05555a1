package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/octotype/dtype"
	"github.com/cube2222/octotype/serialization"
)

var view bool
var dump bool

var decodeCmd = &cobra.Command{
	Use:   "decode <encoded>...",
	Short: "Print serialized types in their textual form.",
	Long: `Print serialized types in their textual form.

Every argument is decoded on its own. Decoded types are kept in a cache, so repeated
arguments are usually served without decoding them again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := serialization.NewCache(cfg.Cache.MaxEntries)
		if err != nil {
			return errors.Wrap(err, "couldn't create decode cache")
		}
		defer cache.Close()

		out := cmd.OutOrStdout()
		for i, arg := range args {
			buf, err := decodeText(arg)
			if err != nil {
				return errors.Wrapf(err, "argument %d", i)
			}

			if view {
				v, err := serialization.WrapView(buf)
				if err != nil {
					return errors.Wrapf(err, "argument %d", i)
				}
				printView(cmd, v)
				continue
			}

			t, err := cache.Decode(buf)
			if err != nil {
				return errors.Wrapf(err, "argument %d", i)
			}
			// Sets are buffered, make this one visible to the next argument.
			cache.Wait()
			logger.Debug("decoded type", "argument", i, "type", t.String())

			if dump {
				spew.Fdump(out, t)
				continue
			}
			fmt.Fprintln(out, t.String())
		}
		return nil
	},
}

// printView only touches the parts of the buffer it prints.
func printView(cmd *cobra.Command, v serialization.ViewedDType) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s%s (%d bytes)\n", v.ID(), v.Nullability(), len(v.Bytes()))

	switch v.ID() {
	case dtype.TypeIDRecord:
		record, _ := v.AsRecord()
		for i, field := range record.Fields() {
			fmt.Fprintf(out, "  %s: %s\n", record.Name(i), field)
		}
	case dtype.TypeIDList:
		element, _ := v.AsList()
		fmt.Fprintf(out, "  element: %s\n", element)
	case dtype.TypeIDExtension:
		ext, _ := v.AsExtension()
		fmt.Fprintf(out, "  id: %s\n  storage: %s\n", ext.ID(), ext.Storage())
		if _, ok := ext.Metadata(); ok {
			fmt.Fprintf(out, "  metadata: %s\n", registry.Describe(ext.Materialize()))
		}
	default:
		fmt.Fprintf(out, "  %s\n", v)
	}
}

func init() {
	decodeCmd.Flags().StringVar(&format, "format", "", "Input encoding, hex or base64. Taken from the config by default.")
	decodeCmd.Flags().BoolVar(&view, "view", false, "Inspect the type through a lazy view instead of decoding it fully.")
	decodeCmd.Flags().BoolVar(&dump, "dump", false, "Dump the decoded Go value.")
	rootCmd.AddCommand(decodeCmd)
}
