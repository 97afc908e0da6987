package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newObjectsCmd(flags *globalFlags) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "objects <file>",
		Short: "List every defined object with its kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			if typ != "" {
				for _, slot := range r.Document().Pool().ObjectsByType(strings.TrimPrefix(typ, "/")) {
					fmt.Fprintf(out, "%s\t%s\n", slot.Key, typeName(slot))
				}
				return nil
			}
			for _, key := range r.Objects() {
				obj, err := r.Lookup(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", key, typeName(obj))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "only list dictionaries and streams with this /Type")

	return cmd
}
