// Package vocab implements the vocabulary model and its line-oriented text
// format.
//
// A vocabulary file looks like this:
//
//	#version:1
//	#filter:lowercase=true
//	a
//	b
//	\20
//
// Directive lines start with '#'. Every other line is a token definition and
// receives the next identifier, starting at zero.
package vocab

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conneroisu/toke/pkg/filter"
	"github.com/conneroisu/toke/pkg/toke"
	"github.com/pkg/errors"
)

// Version is written in the #version directive.
const Version = 1

// Vocabulary is an ordered list of token definitions plus the filter
// configuration that must be applied to text before it is encoded.
type Vocabulary struct {
	defs      [][]byte
	filter    *filter.Filter
	filterCfg string
	hasFilter bool
}

// New returns an empty vocabulary associated with filterConfig.
func New(filterConfig string) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := v.SetFilter(filterConfig); err != nil {
		return nil, err
	}
	return v, nil
}

// SetFilter parses config and associates it with the vocabulary. The config
// is stored on a single directive line, so it cannot contain a newline.
func (v *Vocabulary) SetFilter(config string) error {
	if strings.ContainsRune(config, '\n') {
		return errors.Wrapf(toke.ErrFilterSyntax, "newline in filter config %q", config)
	}
	f, err := filter.Parse(config)
	if err != nil {
		return err
	}
	v.filter = f
	v.filterCfg = config
	v.hasFilter = true
	return nil
}

// FilterConfig returns the filter configuration and whether the vocabulary
// carries one.
func (v *Vocabulary) FilterConfig() (string, bool) {
	return v.filterCfg, v.hasFilter
}

// Filter returns the parsed filter, or nil when there is none.
func (v *Vocabulary) Filter() *filter.Filter {
	return v.filter
}

// Len returns the number of definitions.
func (v *Vocabulary) Len() int {
	return len(v.defs)
}

// At returns the definition of id, or nil if id is out of range. The
// returned slice must not be modified.
func (v *Vocabulary) At(id toke.TokenID) []byte {
	if int(id) >= len(v.defs) {
		return nil
	}
	return v.defs[id]
}

// Define appends def and returns its identifier. It reports false once the
// vocabulary holds toke.MaxTokens definitions.
func (v *Vocabulary) Define(def []byte) (toke.TokenID, bool) {
	if len(v.defs) >= toke.MaxTokens {
		return toke.Unknown, false
	}
	v.defs = append(v.defs, bytes.Clone(def))
	return toke.TokenID(len(v.defs) - 1), true
}

// Parse reads a vocabulary in text form. The first error aborts parsing.
func Parse(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	lineNo := 0
	for offset := 0; offset < len(data); {
		lineNo++
		end := bytes.IndexByte(data[offset:], '\n')
		if end < 0 {
			end = len(data)
		} else {
			end += offset
		}
		line := data[offset:end]
		offset = end + 1

		if len(line) > 0 && line[0] == '#' {
			if err := v.directive(line[1:]); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}
		if _, ok := v.Define(Unescape(line)); !ok {
			// the remaining identifier is reserved for unknown tokens
			break
		}
	}
	return v, nil
}

func (v *Vocabulary) directive(line []byte) error {
	name, value, _ := bytes.Cut(line, []byte{':'})
	switch string(name) {
	case "version":
		return nil
	case "filter":
		return v.SetFilter(string(value))
	}
	return errors.Wrapf(toke.ErrVocabSyntax, "unknown directive %q", name)
}

// WriteTo writes the vocabulary in text form. The #filter directive is
// written only when the vocabulary carries a filter configuration.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int
	n, _ := fmt.Fprintf(bw, "#version:%d\n", Version)
	total += n
	if v.hasFilter {
		n, _ = fmt.Fprintf(bw, "#filter:%s\n", v.filterCfg)
		total += n
	}
	for _, def := range v.defs {
		n, _ = bw.Write(append(Escape(def), '\n'))
		total += n
	}
	// bufio.Writer keeps the first write error and reports it from Flush
	return int64(total), bw.Flush()
}

// Bytes returns the vocabulary in text form.
func (v *Vocabulary) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = v.WriteTo(&buf)
	return buf.Bytes()
}

// Load reads and parses the vocabulary file at path.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(toke.ErrFileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(toke.ErrFileIO, "reading %s: %v", path, err)
	}
	return Parse(data)
}

// Save writes the vocabulary to path.
func (v *Vocabulary) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(toke.ErrFileIO, "creating %s: %v", path, err)
	}
	defer f.Close()
	if _, err := v.WriteTo(f); err != nil {
		return errors.Wrapf(toke.ErrFileIO, "writing %s: %v", path, err)
	}
	return f.Close()
}
