package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newXRefCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "xref <file>",
		Short: "List the in-use cross-reference entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			for _, e := range r.XRefTable().Entries() {
				fmt.Fprintf(out, "%6d %5d %10d\n", e.Key.Number, e.Key.Generation, e.Offset)
			}
			return nil
		},
	}
}
