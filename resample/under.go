package resample

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// RandomUnderSampler draws a random subset of majority records, without
// replacement, of size equal to the minority count and discards the rest of
// the majority class. The information loss from the discarded records is the
// point of the strategy.
type RandomUnderSampler struct{}

// Name implements Strategy.
func (RandomUnderSampler) Name() string { return "down" }

// Resample implements Strategy. Surviving records keep their original
// relative order; the minority class is untouched.
func (RandomUnderSampler) Resample(X *mat.Dense, y []float64, seed uint64) (*mat.Dense, []float64, error) {
	split, err := classSplit("resample.RandomUnderSampler", X, y)
	if err != nil {
		return nil, nil, err
	}

	rng := newRNG(seed)
	perm := rng.Perm(len(split.maj))
	kept := make([]int, 0, 2*len(split.min))
	for _, p := range perm[:len(split.min)] {
		kept = append(kept, split.maj[p])
	}
	kept = append(kept, split.min...)
	sort.Ints(kept)

	_, cols := X.Dims()
	out := mat.NewDense(len(kept), cols, nil)
	outY := make([]float64, len(kept))
	for i, idx := range kept {
		out.SetRow(i, X.RawRowView(idx))
		outY[i] = y[idx]
	}
	return out, outY, nil
}
