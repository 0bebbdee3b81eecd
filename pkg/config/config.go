// Package config holds the settings of a training run.
package config

import (
	"os"
	"runtime"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Train is the configuration of the train command.
type Train struct {
	// Source is a corpus directory or archive.
	Source string `yaml:"source"`
	// Output is where the vocabulary is written.
	Output string `yaml:"output"`
	// Filter is the filter configuration stored in the vocabulary.
	Filter string `yaml:"filter"`
	// Tokens is the target vocabulary size.
	Tokens int `yaml:"tokens"`
	// Jobs is the number of documents scanned in parallel.
	Jobs int `yaml:"jobs"`
	// Preload reads every file of a directory corpus up front.
	Preload bool `yaml:"preload"`
	// Include restricts a directory corpus to matching relative paths.
	Include string `yaml:"include"`
	// UnicodeBlocks are added to the base vocabulary.
	UnicodeBlocks []string `yaml:"unicode_blocks"`
}

// Default returns the default training configuration.
func Default() Train {
	return Train{
		Source:  ".",
		Output:  "tokenizer.txt",
		Tokens:  1024,
		Jobs:    runtime.NumCPU(),
		Preload: true,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Train, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrapf(toke.ErrFileNotFound, "%s", path)
		}
		return cfg, errors.Wrapf(toke.ErrFileIO, "reading %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// Validate checks the configuration for values a run cannot start with.
func (c Train) Validate() error {
	switch {
	case c.Source == "":
		return errors.New("source is required")
	case c.Output == "":
		return errors.New("output is required")
	case c.Tokens <= 0:
		return errors.Errorf("tokens must be positive, got %d", c.Tokens)
	case c.Tokens > toke.MaxTokens:
		return errors.Errorf("tokens must be at most %d, got %d", toke.MaxTokens, c.Tokens)
	case c.Jobs <= 0:
		return errors.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	return nil
}
