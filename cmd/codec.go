package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/data"
	"github.com/conneroisu/toke/pkg/tokenizer"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewEncodeCommand returns a new encode command.
func NewEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode text into a token stream",
		Long: `
Encode text with a vocabulary.

Tokens are written as little-endian 16-bit integers.
	`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codec, err := tokenizer.LoadCodec(RootArgs.vocabPath)
			if err != nil {
				return err
			}
			text, err := readAll(cmd, RootArgs.inputPath)
			if err != nil {
				return err
			}
			tokens := codec.Encode(text)
			log.Debug("encoded", "bytes", len(text), "tokens", len(tokens))
			return writeAll(cmd, RootArgs.output, func(w io.Writer) error {
				return data.WriteTokens(w, tokens)
			})
		},
	}
	codecFlags(cmd)
	return cmd
}

// NewDecodeCommand returns a new decode command.
func NewDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a token stream into text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codec, err := tokenizer.LoadCodec(RootArgs.vocabPath)
			if err != nil {
				return err
			}
			in, err := openInput(cmd, RootArgs.inputPath)
			if err != nil {
				return errors.Wrapf(toke.ErrFileIO, "opening input: %v", err)
			}
			defer in.Close()
			tokens, err := data.ReadTokens(in)
			if err != nil {
				return err
			}
			text := codec.Decode(tokens)
			return writeAll(cmd, RootArgs.output, func(w io.Writer) error {
				_, err := w.Write(text)
				return err
			})
		},
	}
	codecFlags(cmd)
	return cmd
}

func codecFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(&RootArgs.vocabPath, "vocab", "m", "tokenizer.txt", "Path to the vocabulary file")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.inputPath, "input", "i", "-", "Input file")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.output, "output", "o", "-", "Output file")
}

func readAll(cmd *cobra.Command, path string) ([]byte, error) {
	in, err := openInput(cmd, path)
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileIO, "opening input: %v", err)
	}
	defer in.Close()
	text, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileIO, "reading input: %v", err)
	}
	return text, nil
}

func writeAll(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	out, err := createOutput(cmd, path)
	if err != nil {
		return errors.Wrapf(toke.ErrFileIO, "creating output: %v", err)
	}
	if err := write(out); err != nil {
		out.Close()
		return errors.Wrapf(toke.ErrFileIO, "writing output: %v", err)
	}
	return out.Close()
}
