package tokenizer

import (
	"github.com/conneroisu/toke/pkg/filter"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/conneroisu/toke/pkg/vocab"
)

// Encoder turns text into token identifiers by greedy longest match.
//
// An Encoder is read-only after construction and safe for concurrent use.
type Encoder struct {
	trie   trie
	size   int
	filter *filter.Filter
}

// NewEncoder builds an encoder for v. Empty definitions keep their
// identifier but can never be matched.
func NewEncoder(v *vocab.Vocabulary) *Encoder {
	e := &Encoder{
		trie:   newTrie(),
		size:   v.Len(),
		filter: v.Filter(),
	}
	for i := 0; i < v.Len(); i++ {
		id := toke.TokenID(i)
		def := v.At(id)
		if len(def) == 0 {
			continue
		}
		// cannot fail, def is non-empty
		_ = e.trie.Insert(def, id)
	}
	return e
}

// Len returns the number of definitions the encoder was built from, which
// is also the first identifier not in use.
func (e *Encoder) Len() int {
	return e.size
}

// Encode normalizes text with the vocabulary filter, if any, and encodes it.
func (e *Encoder) Encode(text []byte) []toke.TokenID {
	if e.filter != nil {
		text = e.filter.Apply(text)
	}
	return e.trie.Tokenize(text)
}

// EncodeRaw encodes text that has already been normalized.
func (e *Encoder) EncodeRaw(text []byte) []toke.TokenID {
	return e.trie.Tokenize(text)
}
