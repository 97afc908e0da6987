package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsawler/cosparse/core"
)

// parseKey reads an object number and optional generation from args.
func parseKey(args []string) (core.ObjectKey, error) {
	var key core.ObjectKey
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return key, fmt.Errorf("invalid object number %q", args[0])
	}
	key.Number = n
	if len(args) > 1 {
		g, err := strconv.Atoi(args[1])
		if err != nil || g < 0 {
			return key, fmt.Errorf("invalid generation number %q", args[1])
		}
		key.Generation = g
	}
	return key, nil
}

func newObjectCmd(flags *globalFlags) *cobra.Command {
	var (
		resolve bool
		raw     bool
		decode  bool
	)

	cmd := &cobra.Command{
		Use:   "object <file> <num> [gen]",
		Short: "Print one object, optionally with its stream data",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw && decode {
				return fmt.Errorf("--raw and --decode are mutually exclusive")
			}
			key, err := parseKey(args[1:])
			if err != nil {
				return err
			}

			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			obj, err := r.Lookup(key)
			if err != nil {
				return err
			}
			if resolve {
				if obj, err = r.ResolveDeep(obj); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			stream, isStream := core.Resolve(obj).(*core.Stream)
			if !raw && !decode || !isStream {
				fmt.Fprintf(out, "%s obj\n%s\nendobj\n", key, formatObject(obj))
				return nil
			}

			var data []byte
			if raw {
				data, err = stream.Raw()
			} else {
				data, err = stream.Decode()
			}
			if err != nil {
				return fmt.Errorf("object %s: %w", key, err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "replace references with the objects they point to")
	cmd.Flags().BoolVar(&raw, "raw", false, "write the encoded stream bytes instead of the object")
	cmd.Flags().BoolVarP(&decode, "decode", "d", false, "write the decoded stream bytes instead of the object")

	return cmd
}
