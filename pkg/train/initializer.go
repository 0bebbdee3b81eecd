package train

import (
	"github.com/conneroisu/toke/pkg/corpus"
	"github.com/conneroisu/toke/pkg/filter"
	"github.com/conneroisu/toke/pkg/vocab"
)

// Initializer collects every distinct character of a corpus, one UTF-8
// sequence per definition, as the base vocabulary.
type Initializer struct {
	filter *filter.Filter
	slots  []*vocab.SeedSet
	seeds  *vocab.SeedSet
}

var _ corpus.BatchVisitor = (*Initializer)(nil)

// NewInitializer returns an initializer that normalizes documents with f,
// which may be nil, and accepts walks of up to maxJobs documents per batch.
func NewInitializer(f *filter.Filter, maxJobs int) *Initializer {
	return &Initializer{
		filter: f,
		slots:  make([]*vocab.SeedSet, max(maxJobs, 1)),
		seeds:  &vocab.SeedSet{},
	}
}

// CollectDocument returns the distinct characters of doc. An incomplete
// sequence at the end of doc is dropped.
func (in *Initializer) CollectDocument(doc []byte) *vocab.SeedSet {
	if in.filter != nil {
		doc = in.filter.Apply(doc)
	}
	set := &vocab.SeedSet{}
	for offset := 0; offset < len(doc); {
		size := filter.UTF8Length(doc[offset])
		if size > len(doc)-offset {
			break
		}
		set.Add(doc[offset : offset+size])
		offset += size
	}
	return set
}

// VisitDocument implements corpus.Visitor.
func (in *Initializer) VisitDocument(doc []byte, _, slot int) {
	in.slots[slot] = in.CollectDocument(doc)
}

// EndBatch implements corpus.BatchVisitor.
func (in *Initializer) EndBatch(n int) {
	for i := 0; i < n; i++ {
		if in.slots[i] != nil {
			in.seeds.Merge(in.slots[i])
			in.slots[i] = nil
		}
	}
}

// Seeds returns the characters collected so far.
func (in *Initializer) Seeds() *vocab.SeedSet {
	return in.seeds
}
