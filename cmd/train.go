package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/config"
	"github.com/conneroisu/toke/pkg/corpus"
	"github.com/conneroisu/toke/pkg/train"
	"github.com/conneroisu/toke/pkg/vocab"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewTrainCommand returns a new train command.
func NewTrainCommand() *cobra.Command {
	defaults := config.Default()
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a vocabulary",
		Long: `
Train a vocabulary from a corpus directory or tar archive.

The vocabulary starts with every character found in the corpus and grows
by merging the most frequent pair of adjacent tokens until it reaches the
requested size.
	`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := trainConfig(cmd)
			if err != nil {
				return err
			}
			return runTrain(cfg)
		},
	}

	cmd.PersistentFlags().
		StringVarP(&RootArgs.configPath, "config", "c", "", "Path to a YAML training config")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.source, "source", "d", defaults.Source, "Corpus directory or tar archive")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.output, "output", "o", defaults.Output, "Path to write the vocabulary to")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.filter, "filter", "f", defaults.Filter, "Filter configuration")
	cmd.PersistentFlags().
		IntVarP(&RootArgs.tokens, "tokens", "t", defaults.Tokens, "Target vocabulary size")
	cmd.PersistentFlags().
		IntVarP(&RootArgs.jobs, "jobs", "j", defaults.Jobs, "Documents scanned in parallel")
	cmd.PersistentFlags().
		BoolVarP(&RootArgs.preload, "preload", "p", defaults.Preload, "Read directory corpora into memory up front")
	cmd.PersistentFlags().
		StringVarP(&RootArgs.include, "include", "i", defaults.Include, "Regular expression relative paths must match")
	cmd.PersistentFlags().
		StringSliceVarP(&RootArgs.unicodeBlocks, "unicode-blocks", "u", nil, "Unicode blocks to add to the base vocabulary")
	return cmd
}

// trainConfig loads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func trainConfig(cmd *cobra.Command) (config.Train, error) {
	cfg := config.Default()
	if RootArgs.configPath != "" {
		var err error
		cfg, err = config.Load(RootArgs.configPath)
		if err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = RootArgs.source
	}
	if flags.Changed("output") {
		cfg.Output = RootArgs.output
	}
	if flags.Changed("filter") {
		cfg.Filter = RootArgs.filter
	}
	if flags.Changed("tokens") {
		cfg.Tokens = RootArgs.tokens
	}
	if flags.Changed("jobs") {
		cfg.Jobs = RootArgs.jobs
	}
	if flags.Changed("preload") {
		cfg.Preload = RootArgs.preload
	}
	if flags.Changed("include") {
		cfg.Include = RootArgs.include
	}
	if flags.Changed("unicode-blocks") {
		cfg.UnicodeBlocks = RootArgs.unicodeBlocks
	}
	return cfg, cfg.Validate()
}

func runTrain(cfg config.Train) error {
	blocks := make([]vocab.Block, 0, len(cfg.UnicodeBlocks))
	for _, name := range cfg.UnicodeBlocks {
		b, err := vocab.ParseBlock(name)
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
	}
	v, err := vocab.New(cfg.Filter)
	if err != nil {
		return err
	}

	src, err := corpus.Open(cfg.Source, corpus.Options{
		Include: cfg.Include,
		Preload: cfg.Preload,
		Logger:  log.Default(),
	})
	if err != nil {
		return errors.Wrap(err, "opening corpus")
	}
	defer src.Close()

	trainer := &train.Trainer{Source: src, Jobs: cfg.Jobs, Logger: log.Default()}
	if _, err := trainer.Initialize(v, blocks...); err != nil {
		return err
	}
	if v.Len() == 0 {
		return errors.Errorf("corpus %s contains no characters", cfg.Source)
	}
	if v.Len() >= cfg.Tokens {
		log.Warn("base vocabulary already reaches the target, nothing to merge",
			"tokens", v.Len(), "target", cfg.Tokens)
	} else {
		result, err := trainer.Train(v, cfg.Tokens)
		if err != nil {
			return err
		}
		log.Info("training finished", "reason", result.Reason, "merges", len(result.Merges))
	}

	if err := v.Save(cfg.Output); err != nil {
		return err
	}
	log.Info("wrote vocabulary", "path", cfg.Output, "tokens", v.Len())
	return nil
}
