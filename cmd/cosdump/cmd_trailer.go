package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrailerCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "trailer <file>",
		Short: "Print the trailer dictionary and the startxref offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			trailer := r.Trailer()
			if trailer == nil {
				return fmt.Errorf("%s: no trailer found", args[0])
			}
			fmt.Fprintln(out, formatObject(trailer))
			if off, ok := r.StartXRef(); ok {
				fmt.Fprintf(out, "startxref %d\n", off)
			}
			return nil
		},
	}
}
