package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiagCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "diag <file>",
		Short: "Print the repairs made while parsing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			d := r.Diagnostics()
			counters := [][2]string{}
			add := func(label string, n int) {
				if n != 0 || all {
					counters = append(counters, [2]string{label, fmt.Sprint(n)})
				}
			}
			add("Skipped tokens", d.SkippedTokens)
			add("Dropped array elements", d.DroppedArrayElements)
			add("Dropped dictionary values", d.DroppedDictValues)
			add("Dictionary resyncs", d.DictResyncs)
			add("Repaired numbers", d.RepairedNumbers)
			add("Stray keywords", d.StrayKeywords)
			add("Object resyncs", d.ObjectResyncs)
			add("Unbound objects", d.UnboundObjects)
			add("Missing endobj", d.MissingEndObj)
			add("Missing %EOF", d.MissingEOFMarker)
			add("Bad xref entries", d.BadXRefEntries)
			add("Conflicts applied", d.ConflictsApplied)
			add("Conflicts discarded", d.ConflictsDiscarded)
			add("Xref stream errors", d.XRefStreamErrors)
			add("Object stream errors", d.ObjectStreamErrors)
			counters = append(counters, [2]string{"Total repairs", fmt.Sprint(d.Repairs())})

			return writeText(cmd.OutOrStdout(), counters)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include counters that are zero")

	return cmd
}
