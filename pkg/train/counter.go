package train

import (
	"github.com/conneroisu/toke/pkg/corpus"
	"github.com/conneroisu/toke/pkg/filter"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/conneroisu/toke/pkg/tokenizer"
	"github.com/conneroisu/toke/pkg/vocab"
)

// PairCounter counts adjacent alphabetic token pairs over a corpus walk.
//
// Each document is counted into the table of its batch slot. After a batch
// the slot tables are merged into the round total in slot order, which is
// corpus order, so the result does not depend on goroutine scheduling.
type PairCounter struct {
	encoder *tokenizer.Encoder
	filter  *filter.Filter
	alpha   []bool
	slots   []*PairTable
	total   *PairTable
}

var _ corpus.BatchVisitor = (*PairCounter)(nil)

// NewPairCounter returns a counter for v that accepts walks of up to maxJobs
// documents per batch.
func NewPairCounter(v *vocab.Vocabulary, maxJobs int) *PairCounter {
	alpha := make([]bool, v.Len())
	for i := range alpha {
		alpha[i] = startsAlpha(v.At(toke.TokenID(i)))
	}
	return &PairCounter{
		encoder: tokenizer.NewEncoder(v),
		filter:  v.Filter(),
		alpha:   alpha,
		slots:   make([]*PairTable, max(maxJobs, 1)),
		total:   NewPairTable(),
	}
}

// startsAlpha reports whether def begins with an ASCII letter. Merged tokens
// are built only from such tokens, so the first byte speaks for all of them.
func startsAlpha(def []byte) bool {
	if len(def) == 0 {
		return false
	}
	c := def[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// CountDocument counts the pairs of one document into a new table.
func (c *PairCounter) CountDocument(doc []byte) *PairTable {
	if c.filter != nil {
		doc = c.filter.Apply(doc)
	}
	tokens := c.encoder.EncodeRaw(doc)
	table := NewPairTable()
	for i := 1; i < len(tokens); i++ {
		l, r := tokens[i-1], tokens[i]
		if !l.Known() || !r.Known() {
			continue
		}
		if !c.alpha[l] || !c.alpha[r] {
			continue
		}
		table.Add(Pair{Left: l, Right: r}, 1)
	}
	return table
}

// VisitDocument implements corpus.Visitor.
func (c *PairCounter) VisitDocument(doc []byte, _, slot int) {
	c.slots[slot] = c.CountDocument(doc)
}

// EndBatch implements corpus.BatchVisitor.
func (c *PairCounter) EndBatch(n int) {
	for i := 0; i < n; i++ {
		if c.slots[i] != nil {
			c.total.Merge(c.slots[i])
			c.slots[i] = nil
		}
	}
}

// Result returns the pairs counted so far.
func (c *PairCounter) Result() *PairTable {
	return c.total
}
