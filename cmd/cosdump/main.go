package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/tsawler/cosparse/reader"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	strict     bool
	scratchDir string
	verbose    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "cosdump",
		Short: "Inspect the object structure of PDF files",
		Long: `Parse a PDF file front to back, repairing damage where possible,
and print its header, trailer, cross-reference entries, objects and the
repairs that were needed.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(flags.verbose, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.strict, "strict", false, "fail at the first damaged object instead of repairing")
	pf.StringVar(&flags.scratchDir, "scratch-dir", "", "directory for the temporary stream body file")
	pf.CountVarP(&flags.verbose, "verbose", "v", "log parser recoveries (repeat for more detail)")

	rootCmd.AddCommand(newInfoCmd(flags))
	rootCmd.AddCommand(newTrailerCmd(flags))
	rootCmd.AddCommand(newXRefCmd(flags))
	rootCmd.AddCommand(newObjectsCmd(flags))
	rootCmd.AddCommand(newObjectCmd(flags))
	rootCmd.AddCommand(newDiagCmd(flags))
	rootCmd.AddCommand(newImageCmd(flags))

	return rootCmd
}

// open parses path with the options selected by the global flags.
func (f *globalFlags) open(path string) (*reader.Reader, error) {
	return reader.Open(path,
		reader.WithLenient(!f.strict),
		reader.WithScratchDir(f.scratchDir),
	)
}
