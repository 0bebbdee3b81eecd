package train

import "github.com/conneroisu/toke/pkg/toke"

// Pair is an ordered pair of adjacent tokens.
type Pair struct {
	Left, Right toke.TokenID
}

// PairTable counts pairs and remembers the order in which they were first
// seen, so that ties resolve the same way for the same traversal order.
type PairTable struct {
	counts map[Pair]int
	order  []Pair
}

// NewPairTable returns an empty table.
func NewPairTable() *PairTable {
	return &PairTable{counts: map[Pair]int{}}
}

// Add adds n occurrences of p.
func (t *PairTable) Add(p Pair, n int) {
	if _, ok := t.counts[p]; !ok {
		t.order = append(t.order, p)
	}
	t.counts[p] += n
}

// Merge adds every count of other, in other's first-seen order.
func (t *PairTable) Merge(other *PairTable) {
	for _, p := range other.order {
		t.Add(p, other.counts[p])
	}
}

// Count returns the number of occurrences of p.
func (t *PairTable) Count(p Pair) int {
	return t.counts[p]
}

// Len returns the number of distinct pairs.
func (t *PairTable) Len() int {
	return len(t.order)
}

// Pairs returns the distinct pairs in first-seen order.
func (t *PairTable) Pairs() []Pair {
	return t.order
}

// Best returns the pair with the strictly greatest count. Among equal counts
// the pair seen first wins. An empty table returns a zero count.
func (t *PairTable) Best() (Pair, int) {
	var best Pair
	bestCount := 0
	for _, p := range t.order {
		if c := t.counts[p]; c > bestCount {
			best, bestCount = p, c
		}
	}
	return best, bestCount
}
