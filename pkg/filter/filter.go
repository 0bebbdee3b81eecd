// Package filter implements the configurable byte-level text normalizer that
// is applied to text before it is tokenized or counted.
package filter

import (
	"strings"

	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
	"golang.org/x/text/transform"
)

// Sentinel is emitted in place of bytes rejected by restricted_ascii.
const Sentinel byte = 0x7f

type flag uint8

const (
	normalizeLines flag = 1 << iota
	normalizeTabs
	restrictedASCII
	lowercase
	unicodeSubstitutes
)

// options lists the recognized configuration keys in canonical order.
var options = []struct {
	key  string
	flag flag
}{
	{"normalize_lines", normalizeLines},
	{"normalize_tabs", normalizeTabs},
	{"restricted_ascii", restrictedASCII},
	{"lowercase", lowercase},
	{"unicode_substitutes", unicodeSubstitutes},
}

// Filter is a parsed filter configuration.
//
// Apply and Transform never modify the Filter, so a configured Filter may be
// shared by any number of goroutines.
type Filter struct {
	flags flag
}

var _ transform.Transformer = (*Filter)(nil)

// Parse parses a filter configuration of the form key=value(,key=value)*.
//
// Unrecognized keys are ignored. The empty string is valid and disables every
// rule.
func Parse(config string) (*Filter, error) {
	f := &Filter{}
	if err := f.Reconfigure(config); err != nil {
		return nil, err
	}
	return f, nil
}

// Reconfigure resets every flag and then applies config.
func (f *Filter) Reconfigure(config string) error {
	f.flags = 0
	start := 0
	for start < len(config) {
		propEnd := indexFrom(config, start, ',')
		keyEnd := indexFrom(config, start, '=')
		if propEnd <= keyEnd {
			return errors.Wrapf(toke.ErrFilterSyntax, "missing '=' in %q", config[start:propEnd])
		}
		key, value := config[start:keyEnd], config[keyEnd+1:propEnd]
		start = propEnd + 1
		bit, ok := lookup(key)
		if !ok {
			continue
		}
		switch value {
		case "true":
			f.flags |= bit
		case "false":
			f.flags &^= bit
		default:
			return errors.Wrapf(toke.ErrFilterSyntax, "invalid value %q for %s", value, key)
		}
	}
	return nil
}

func lookup(key string) (flag, bool) {
	for _, opt := range options {
		if opt.key == key {
			return opt.flag, true
		}
	}
	return 0, false
}

func indexFrom(s string, offset int, c byte) int {
	if i := strings.IndexByte(s[offset:], c); i >= 0 {
		return offset + i
	}
	return len(s)
}

// String returns the canonical configuration of the enabled flags.
func (f *Filter) String() string {
	var parts []string
	for _, opt := range options {
		if f.flags&opt.flag != 0 {
			parts = append(parts, opt.key+"=true")
		}
	}
	return strings.Join(parts, ",")
}

// Enabled reports whether the filter changes any input at all.
func (f *Filter) Enabled() bool {
	return f != nil && f.flags != 0
}

// Apply returns the normalized form of text. It never fails and the result is
// never longer than text.
func (f *Filter) Apply(text []byte) []byte {
	out := make([]byte, len(text))
	n, i := 0, 0
	for i < len(text) {
		w, r := f.step(out[n:], text[i:])
		n += w
		i += r
	}
	return out[:n]
}

// Transform implements transform.Transformer.
func (f *Filter) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		rest := src[nSrc:]
		need := UTF8Length(rest[0])
		if f.flags&normalizeLines != 0 && rest[0] == '\r' {
			need = 2
		}
		if len(rest) < need {
			if !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			need = len(rest)
		}
		if len(dst)-nDst < need {
			return nDst, nSrc, transform.ErrShortDst
		}
		w, r := f.step(dst[nDst:], rest)
		nDst += w
		nSrc += r
	}
	return nDst, nSrc, nil
}

// Reset implements transform.Transformer. A Filter carries no stream state.
func (f *Filter) Reset() {}

// step normalizes the unit at the start of src into dst and returns the
// number of bytes written and consumed. dst must have room for the unit.
func (f *Filter) step(dst, src []byte) (int, int) {
	c := src[0]
	size := min(UTF8Length(c), len(src))

	if f.flags&normalizeLines != 0 && c == '\r' {
		dst[0] = '\n'
		if len(src) > 1 && src[1] == '\n' {
			return 1, 2
		}
		return 1, 1
	}

	if f.flags&normalizeTabs != 0 && c == '\t' {
		dst[0] = ' '
		return 1, 1
	}

	if f.flags&unicodeSubstitutes != 0 && size == 3 {
		if sub, ok := substitute(src[:3]); ok {
			dst[0] = sub
			return 1, 3
		}
	}

	if f.flags&restrictedASCII != 0 && !isRestrictedASCII(c) {
		dst[0] = Sentinel
		return 1, size
	}

	if f.flags&lowercase != 0 && c >= 'A' && c <= 'Z' {
		dst[0] = c + ('a' - 'A')
		return 1, 1
	}

	copy(dst, src[:size])
	return size, size
}

// substitute maps General Punctuation dashes, quotes and bullets to ASCII.
func substitute(seq []byte) (byte, bool) {
	if seq[0] != 0xe2 || seq[1] != 0x80 {
		return 0, false
	}
	switch seq[2] {
	case 0x94, 0x93, 0x90, 0x91: // em dash, en dash, hyphen, non-breaking hyphen
		return '-', true
	case 0x9c, 0x9d, 0xb3: // left/right double quote, double prime
		return '"', true
	case 0x98, 0x99, 0xb2: // left/right single quote, prime
		return '\'', true
	case 0xa2, 0xa3: // bullet, triangular bullet
		return '*', true
	}
	return 0, false
}

func isRestrictedASCII(c byte) bool {
	return (c >= ' ' && c <= '~') || c == '\r' || c == '\n' || c == '\t'
}

// UTF8Length classifies a lead byte: 110xxxxx is 2, 1110xxxx is 3,
// 11110xxx is 4 and anything else is treated as a single byte.
func UTF8Length(lead byte) int {
	switch {
	case lead>>5 == 0x06:
		return 2
	case lead>>4 == 0x0e:
		return 3
	case lead>>3 == 0x1e:
		return 4
	}
	return 1
}
