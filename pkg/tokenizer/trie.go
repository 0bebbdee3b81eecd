package tokenizer

import (
	"fmt"

	"github.com/conneroisu/toke/pkg/toke"
)

// node is one trie position. Child index 0 means no child, since the root is
// node 0 and is never anyone's child.
type node struct {
	children [256]uint32
	token    toke.TokenID
}

// trie is a byte trie stored as an arena of nodes.
type trie struct {
	nodes []node
}

// newTrie creates a trie holding only the root.
func newTrie() trie {
	return trie{nodes: []node{{token: toke.Unknown}}}
}

// Insert maps word to id. A later insert of the same word replaces the id.
func (t *trie) Insert(word []byte, id toke.TokenID) error {
	if len(word) == 0 {
		return fmt.Errorf("zero length word not supported")
	}
	cur := uint32(0)
	for _, c := range word {
		next := t.nodes[cur].children[c]
		if next == 0 {
			t.nodes = append(t.nodes, node{token: toke.Unknown})
			next = uint32(len(t.nodes) - 1)
			t.nodes[cur].children[c] = next
		}
		cur = next
	}
	t.nodes[cur].token = id
	return nil
}

// Match returns the longest token that prefixes input and its length in
// bytes. If no token matches, it returns toke.Unknown and a length of 1.
func (t *trie) Match(input []byte) (toke.TokenID, int) {
	best, bestLen := toke.Unknown, 0
	cur := uint32(0)
	for i, c := range input {
		cur = t.nodes[cur].children[c]
		if cur == 0 {
			break
		}
		if tok := t.nodes[cur].token; tok != toke.Unknown {
			best, bestLen = tok, i+1
		}
	}
	if bestLen == 0 {
		return toke.Unknown, 1
	}
	return best, bestLen
}

// Tokenize splits input into greedy longest matches.
func (t *trie) Tokenize(input []byte) []toke.TokenID {
	tokens := make([]toke.TokenID, 0, len(input))
	for len(input) != 0 {
		tok, n := t.Match(input)
		tokens = append(tokens, tok)
		input = input[n:]
	}
	return tokens
}
