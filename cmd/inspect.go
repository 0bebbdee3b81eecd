package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/data"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// NewInspectCommand returns a new inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report statistics of an encoded token stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := data.NewDataLoader(
				RootArgs.streamPath,
				RootArgs.batchSize,
				RootArgs.seqLength,
			)
			if err != nil {
				return err
			}
			unknown := 0
			for _, t := range loader.Tokens() {
				if !t.Known() {
					unknown++
				}
			}
			total := len(loader.Tokens())
			log.Info("token stream",
				"tokens", total,
				"unknown", unknown,
				"unknown_ratio", float64(unknown)/float64(total),
				"batches", loader.NumBatches,
			)

			ratios := make([]float64, 0, loader.NumBatches)
			for i := 0; i < loader.NumBatches; i++ {
				inputs, _ := loader.NextBatch()
				n := 0
				for _, t := range inputs {
					if !t.Known() {
						n++
					}
				}
				ratios = append(ratios, float64(n)/float64(len(inputs)))
			}
			mean, std := stat.MeanStdDev(ratios, nil)
			log.Info("per batch unknown ratio", "mean", mean, "stddev", std)
			return nil
		},
	}
	cmd.PersistentFlags().
		StringVarP(&RootArgs.streamPath, "input", "i", "tokens.bin", "Encoded token stream")
	cmd.PersistentFlags().
		IntVarP(&RootArgs.batchSize, "batch-size", "b", 4, "Batch size")
	cmd.PersistentFlags().
		IntVarP(&RootArgs.seqLength, "seq-length", "l", 64, "Sequence length")
	return cmd
}
