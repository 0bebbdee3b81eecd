// Package tokenizer implements the trie-based encoder and the table-based
// decoder built from a vocabulary.
package tokenizer

import (
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/conneroisu/toke/pkg/vocab"
)

// Tokenizer is an interface for tokenizing text.
type Tokenizer interface {
	Encode(text []byte) []toke.TokenID
	Decode(tokens []toke.TokenID) []byte
}

// Codec pairs an Encoder and a Decoder built from the same vocabulary.
type Codec struct {
	*Encoder
	*Decoder
	Vocab *vocab.Vocabulary
}

var _ Tokenizer = (*Codec)(nil)

// NewCodec returns a Codec for v.
func NewCodec(v *vocab.Vocabulary) *Codec {
	return &Codec{
		Encoder: NewEncoder(v),
		Decoder: NewDecoder(v),
		Vocab:   v,
	}
}

// LoadCodec reads the vocabulary file at filename and returns a Codec for it.
func LoadCodec(filename string) (*Codec, error) {
	v, err := vocab.Load(filename)
	if err != nil {
		return nil, err
	}
	return NewCodec(v), nil
}
