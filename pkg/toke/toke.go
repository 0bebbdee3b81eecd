// Package toke holds the token identifier type and the error kinds shared by
// the filter, vocabulary, tokenizer, corpus, and training packages.
package toke

import "github.com/pkg/errors"

// TokenID identifies a token definition in a vocabulary.
//
// Valid identifiers are dense and zero based. Unknown is reserved and is never
// assigned a definition.
type TokenID uint16

const (
	// Unknown is emitted for input the encoder cannot match and decodes to
	// the sentinel byte.
	Unknown TokenID = 65535
	// MaxTokens is the maximum number of definitions a vocabulary can hold.
	MaxTokens = 65534
)

// Known reports whether id refers to a definition rather than Unknown.
func (id TokenID) Known() bool {
	return id != Unknown
}

var (
	// ErrFileNotFound is returned when a vocabulary, archive or corpus path
	// cannot be opened.
	ErrFileNotFound = errors.New("file not found")
	// ErrFileIO is returned on read, write or size failures and on
	// structural violations of a corpus archive.
	ErrFileIO = errors.New("file IO error")
	// ErrVocabSyntax is returned for an unrecognized vocabulary directive.
	ErrVocabSyntax = errors.New("vocab syntax error")
	// ErrFilterSyntax is returned for a malformed filter configuration.
	ErrFilterSyntax = errors.New("filter syntax error")
	// ErrInvalidUnicode is returned when a codepoint outside the Unicode
	// range is added to a seed set.
	ErrInvalidUnicode = errors.New("invalid unicode")
)
