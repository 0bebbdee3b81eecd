// Package data reads and writes token streams: flat sequences of
// little-endian unsigned 16-bit identifiers in which 65535 means unknown.
package data

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
)

// TokenByteLen is the size of one encoded token.
const TokenByteLen = 2

// WriteTokens writes tokens to w as a flat little-endian stream.
func WriteTokens(w io.Writer, tokens []toke.TokenID) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, tokens); err != nil {
		return errors.Wrapf(toke.ErrFileIO, "writing tokens: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(toke.ErrFileIO, "writing tokens: %v", err)
	}
	return nil
}

// ReadTokens reads a whole token stream from r.
func ReadTokens(r io.Reader) ([]toke.TokenID, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(toke.ErrFileIO, "reading tokens: %v", err)
	}
	if len(raw)%TokenByteLen != 0 {
		return nil, errors.Wrapf(toke.ErrFileIO, "token stream has odd length %d", len(raw))
	}
	tokens := make([]toke.TokenID, len(raw)/TokenByteLen)
	for i := range tokens {
		tokens[i] = toke.TokenID(binary.LittleEndian.Uint16(raw[i*TokenByteLen:]))
	}
	return tokens, nil
}

// Loader is an interface for token batch loaders.
type Loader interface {
	NextBatch() ([]toke.TokenID, []toke.TokenID)
	Reset()
}

// DataLoader hands out fixed size batches of a token file. Each batch has
// batchSize*seqLength inputs and the same number of targets shifted by one.
type DataLoader struct {
	batchSize  int
	seqLength  int
	curPos     int
	NumBatches int
	data       []toke.TokenID
}

var _ Loader = (*DataLoader)(nil)

// NewDataLoader returns a new DataLoader over the token file filename.
func NewDataLoader(filename string, batchSize, seqLength int) (*DataLoader, error) {
	if batchSize <= 0 || seqLength <= 0 {
		return nil, errors.Errorf("batch size and sequence length must be positive")
	}
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(toke.ErrFileNotFound, "%s", filename)
		}
		return nil, errors.Wrapf(toke.ErrFileIO, "opening %s: %v", filename, err)
	}
	defer file.Close()
	tokens, err := ReadTokens(file)
	if err != nil {
		return nil, err
	}
	return NewLoader(tokens, batchSize, seqLength)
}

// NewLoader returns a DataLoader over tokens already in memory.
func NewLoader(tokens []toke.TokenID, batchSize, seqLength int) (*DataLoader, error) {
	if len(tokens) < batchSize*seqLength+1 {
		return nil, errors.Errorf("%d tokens is too small for batch size %d and sequence length %d",
			len(tokens), batchSize, seqLength)
	}
	return &DataLoader{
		batchSize:  batchSize,
		seqLength:  seqLength,
		NumBatches: (len(tokens) - 1) / (batchSize * seqLength),
		data:       tokens,
	}, nil
}

// Tokens returns every token of the loader.
func (loader *DataLoader) Tokens() []toke.TokenID {
	return loader.data
}

// Reset resets the loader to the beginning of the stream.
func (loader *DataLoader) Reset() {
	loader.curPos = 0
}

// NextBatch returns the next batch, wrapping to the start when the stream
// is exhausted.
func (loader *DataLoader) NextBatch() ([]toke.TokenID, []toke.TokenID) {
	nextPos := loader.curPos + loader.batchSize*loader.seqLength
	if nextPos+1 > len(loader.data) {
		loader.Reset()
		nextPos = loader.curPos + loader.batchSize*loader.seqLength
	}
	inputs := loader.data[loader.curPos:nextPos]
	targets := loader.data[loader.curPos+1 : nextPos+1]
	loader.curPos = nextPos
	return inputs, targets
}
