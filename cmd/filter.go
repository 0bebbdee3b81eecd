package cmd

import (
	"io"

	"github.com/conneroisu/toke/pkg/filter"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/transform"
)

// NewFilterCommand returns a new filter command.
func NewFilterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter [config]",
		Short: "Normalize text with a filter configuration",
		Long: `
Stream text through a filter, e.g.

	toke filter lowercase=true,normalize_lines=true < in.txt > out.txt
	`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var config string
			if len(args) == 1 {
				config = args[0]
			}
			f, err := filter.Parse(config)
			if err != nil {
				return err
			}
			in, err := openInput(cmd, RootArgs.inputPath)
			if err != nil {
				return errors.Wrapf(toke.ErrFileIO, "opening input: %v", err)
			}
			defer in.Close()
			return writeAll(cmd, RootArgs.output, func(w io.Writer) error {
				_, err := io.Copy(w, transform.NewReader(in, f))
				return err
			})
		},
	}
	cmd.PersistentFlags().
		StringVarP(&RootArgs.inputPath, "input", "i", "-", "Input file")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.output, "output", "o", "-", "Output file")
	return cmd
}
