// Package train derives a vocabulary from a corpus by repeatedly merging the
// most frequent pair of adjacent alphabetic tokens.
package train

import (
	"bytes"
	"time"

	"github.com/charmbracelet/log"
	"github.com/conneroisu/toke/pkg/corpus"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/conneroisu/toke/pkg/vocab"
	"github.com/pkg/errors"
)

// Stop reasons reported in Result.
const (
	StopTarget    = "target reached"
	StopFrequency = "no pair occurs more than once"
	StopFull      = "vocabulary full"
)

// Merge describes one new token.
type Merge struct {
	Pair  Pair
	Count int
	ID    toke.TokenID
}

// Round is the outcome of one scan of the corpus.
type Round struct {
	Merge   Merge
	Merged  bool
	Stats   RoundStats
	Elapsed time.Duration
}

// Result is the outcome of Train.
type Result struct {
	Merges []Merge
	Reason string
}

// Trainer runs training rounds over a corpus.
type Trainer struct {
	Source corpus.Source
	// Jobs is the number of documents scanned in parallel.
	Jobs   int
	Logger *log.Logger
}

func (t *Trainer) logger() *log.Logger {
	if t.Logger == nil {
		return log.Default()
	}
	return t.Logger
}

func (t *Trainer) jobs() int {
	return max(t.Jobs, 1)
}

// Initialize appends every distinct character of the corpus to v in byte
// order, after normalizing with the vocabulary filter. Characters of blocks
// are added as well. It returns the number of definitions added.
func (t *Trainer) Initialize(v *vocab.Vocabulary, blocks ...vocab.Block) (int, error) {
	in := NewInitializer(v.Filter(), t.jobs())
	if err := t.Source.Walk(t.jobs(), in); err != nil {
		return 0, errors.Wrap(err, "collecting characters")
	}
	seeds := in.Seeds()
	for _, b := range blocks {
		if err := seeds.AddUnicodeBlock(b); err != nil {
			return 0, err
		}
	}
	n := seeds.DefineAll(v)
	t.logger().Info("initialized vocabulary", "tokens", v.Len())
	return n, nil
}

// Count scans the corpus with the current vocabulary and returns the pair
// counts of the round.
func (t *Trainer) Count(v *vocab.Vocabulary) (*PairTable, error) {
	counter := NewPairCounter(v, t.jobs())
	if err := t.Source.Walk(t.jobs(), counter); err != nil {
		return nil, errors.Wrap(err, "counting pairs")
	}
	return counter.Result(), nil
}

// Step runs one round: it counts pairs and, if the most frequent pair occurs
// more than once and v has room, appends the concatenation of the pair.
func (t *Trainer) Step(v *vocab.Vocabulary) (Round, error) {
	start := time.Now()
	table, err := t.Count(v)
	if err != nil {
		return Round{}, err
	}
	best, count := table.Best()
	round := Round{
		Merge: Merge{Pair: best, Count: count, ID: toke.Unknown},
		Stats: Summarize(table),
	}
	if count > 1 {
		def := bytes.Join([][]byte{v.At(best.Left), v.At(best.Right)}, nil)
		if id, ok := v.Define(def); ok {
			round.Merge.ID = id
			round.Merged = true
		}
	}
	round.Elapsed = time.Since(start)
	return round, nil
}

// Train merges pairs into v until it holds target definitions, it is full,
// or no pair occurs more than once.
func (t *Trainer) Train(v *vocab.Vocabulary, target int) (Result, error) {
	var result Result
	logger := t.logger()
	for {
		if v.Len() >= target {
			result.Reason = StopTarget
			return result, nil
		}
		if v.Len() >= toke.MaxTokens {
			result.Reason = StopFull
			return result, nil
		}
		round, err := t.Step(v)
		if err != nil {
			return result, err
		}
		if !round.Merged {
			result.Reason = StopFrequency
			logger.Info("stopping", "reason", result.Reason, "best", round.Merge.Count)
			return result, nil
		}
		result.Merges = append(result.Merges, round.Merge)

		remaining := target - v.Len()
		logger.Info("merged pair",
			"vocab", v.Len(),
			"target", target,
			"token", string(v.At(round.Merge.ID)),
			"count", round.Merge.Count,
			"took", round.Elapsed.Round(time.Millisecond),
			"eta", (round.Elapsed * time.Duration(remaining)).Round(time.Second),
		)
		logger.Debug("round stats",
			"pairs", round.Stats.Pairs,
			"total", round.Stats.Total,
			"mean", round.Stats.Mean,
			"stddev", round.Stats.StdDev,
			"max", round.Stats.Max,
		)
	}
}
