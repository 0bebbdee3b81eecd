package tokenizer

import (
	"github.com/conneroisu/toke/pkg/filter"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/conneroisu/toke/pkg/vocab"
)

// Decoder turns token identifiers back into bytes.
type Decoder struct {
	tokenTable [][]byte
}

// NewDecoder builds a decoder for v.
func NewDecoder(v *vocab.Vocabulary) *Decoder {
	d := &Decoder{tokenTable: make([][]byte, v.Len())}
	for i := range d.tokenTable {
		d.tokenTable[i] = v.At(toke.TokenID(i))
	}
	return d
}

// Decode concatenates the definitions of tokens. Unknown and out of range
// identifiers decode to filter.Sentinel.
func (d *Decoder) Decode(tokens []toke.TokenID) []byte {
	size := 0
	for _, tok := range tokens {
		if int(tok) < len(d.tokenTable) {
			size += len(d.tokenTable[tok])
		} else {
			size++
		}
	}
	out := make([]byte, 0, size)
	for _, tok := range tokens {
		if int(tok) < len(d.tokenTable) {
			out = append(out, d.tokenTable[tok]...)
		} else {
			out = append(out, filter.Sentinel)
		}
	}
	return out
}
