// Package cmd contains the command tree of the toke CLI.
package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// rootArgs is the root command arguments.
type rootArgs struct {
	verbose       bool
	configPath    string
	source        string
	output        string
	filter        string
	tokens        int
	jobs          int
	preload       bool
	include       string
	unicodeBlocks []string
	vocabPath     string
	inputPath     string
	streamPath    string
	batchSize     int
	seqLength     int
}

// RootArgs is the root command arguments.
var RootArgs rootArgs

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toke",
	Short: "A byte-level subword tokenizer",
	Long: `
A byte-level subword tokenizer.

Trains vocabularies from text corpora by pair merging, and encodes and
decodes text with them.
	`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log.SetOutput(cmd.ErrOrStderr())
		if RootArgs.verbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&RootArgs.verbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(NewTrainCommand())
	rootCmd.AddCommand(NewEncodeCommand())
	rootCmd.AddCommand(NewDecodeCommand())
	rootCmd.AddCommand(NewFilterCommand())
	rootCmd.AddCommand(NewInspectCommand())
}

// openInput opens path for reading, or stdin when path is empty or "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// createOutput creates path for writing, or returns stdout when path is
// empty or "-".
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
