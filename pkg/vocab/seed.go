package vocab

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Block names a range of codepoints that can seed a vocabulary.
type Block int

const (
	// BasicLatin is U+0000 through U+007F.
	BasicLatin Block = iota
	// GeneralPunctuation is U+2000 through U+206F.
	GeneralPunctuation
)

var blockRanges = map[Block][2]rune{
	BasicLatin:         {0x0000, 0x007f},
	GeneralPunctuation: {0x2000, 0x206f},
}

var blockNames = map[string]Block{
	"basic_latin":         BasicLatin,
	"general_punctuation": GeneralPunctuation,
}

// ParseBlock resolves a block name such as "basic_latin".
func ParseBlock(name string) (Block, error) {
	b, ok := blockNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Errorf("unknown unicode block %q", name)
	}
	return b, nil
}

// SeedSet is a sorted set of distinct definitions used to build the initial
// vocabulary before any pairs are merged.
type SeedSet struct {
	defs [][]byte
}

// Len returns the number of definitions in the set.
func (s *SeedSet) Len() int {
	return len(s.defs)
}

// At returns the i-th definition in byte order.
func (s *SeedSet) At(i int) []byte {
	return s.defs[i]
}

func (s *SeedSet) search(def []byte) (int, bool) {
	return slices.BinarySearchFunc(s.defs, def, bytes.Compare)
}

// Contains reports whether def is in the set.
func (s *SeedSet) Contains(def []byte) bool {
	_, ok := s.search(def)
	return ok
}

// Add inserts def unless it is already present.
func (s *SeedSet) Add(def []byte) {
	i, ok := s.search(def)
	if ok {
		return
	}
	s.defs = slices.Insert(s.defs, i, bytes.Clone(def))
}

// AddCodepoint inserts the UTF-8 encoding of r.
func (s *SeedSet) AddCodepoint(r rune) error {
	if r < 0 || r > utf8.MaxRune {
		return errors.Wrapf(toke.ErrInvalidUnicode, "codepoint %#x", r)
	}
	// surrogates are encoded as is rather than replaced with U+FFFD
	var buf [utf8.UTFMax]byte
	s.Add(buf[:encodeRune(buf[:], r)])
	return nil
}

// AddUnicodeBlock inserts every codepoint of b.
func (s *SeedSet) AddUnicodeBlock(b Block) error {
	rng, ok := blockRanges[b]
	if !ok {
		return errors.Errorf("unknown unicode block %d", b)
	}
	for r := rng[0]; r <= rng[1]; r++ {
		if err := s.AddCodepoint(r); err != nil {
			return err
		}
	}
	return nil
}

// Merge inserts every definition of other.
func (s *SeedSet) Merge(other *SeedSet) {
	for _, def := range other.defs {
		s.Add(def)
	}
}

// DefineAll appends the set to v in byte order. It stops when v is full and
// returns the number of definitions added.
func (s *SeedSet) DefineAll(v *Vocabulary) int {
	n := 0
	for _, def := range s.defs {
		if _, ok := v.Define(def); !ok {
			break
		}
		n++
	}
	return n
}

func encodeRune(p []byte, r rune) int {
	switch {
	case r <= 0x7f:
		p[0] = byte(r)
		return 1
	case r <= 0x7ff:
		p[0] = 0xc0 | byte(r>>6)
		p[1] = 0x80 | byte(r)&0x3f
		return 2
	case r <= 0xffff:
		p[0] = 0xe0 | byte(r>>12)
		p[1] = 0x80 | byte(r>>6)&0x3f
		p[2] = 0x80 | byte(r)&0x3f
		return 3
	}
	p[0] = 0xf0 | byte(r>>18)
	p[1] = 0x80 | byte(r>>12)&0x3f
	p[2] = 0x80 | byte(r>>6)&0x3f
	p[3] = 0x80 | byte(r)&0x3f
	return 4
}
