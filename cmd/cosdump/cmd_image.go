package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImageCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "image <file> <num> [gen]",
		Short: "Convert an image XObject to PNG",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[1:])
			if err != nil {
				return err
			}

			r, err := flags.open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			img, err := r.Image(key)
			if err != nil {
				return fmt.Errorf("object %s: %w", key, err)
			}
			data, err := img.ToPNG()
			if err != nil {
				return fmt.Errorf("object %s: %w", key, err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %dx%d image to %s\n", img.Width, img.Height, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write (default stdout)")

	return cmd
}
