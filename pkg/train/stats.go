package train

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RoundStats summarizes the pair counts of one training round.
type RoundStats struct {
	Pairs  int
	Total  float64
	Mean   float64
	StdDev float64
	Max    float64
}

// Summarize computes statistics over the counts of t.
func Summarize(t *PairTable) RoundStats {
	if t.Len() == 0 {
		return RoundStats{}
	}
	counts := make([]float64, 0, t.Len())
	for _, p := range t.Pairs() {
		counts = append(counts, float64(t.Count(p)))
	}
	mean, std := stat.MeanStdDev(counts, nil)
	return RoundStats{
		Pairs:  len(counts),
		Total:  floats.Sum(counts),
		Mean:   mean,
		StdDev: std,
		Max:    floats.Max(counts),
	}
}
