package resample

import (
	"gonum.org/v1/gonum/mat"
)

// RandomOverSampler duplicates minority records with replacement until the
// minority count equals the majority count.
//
// Duplicates are exact copies of existing records, which can encourage
// overfitting on the duplicated points; that trade-off is inherent to the
// strategy and not corrected here.
type RandomOverSampler struct{}

// Name implements Strategy.
func (RandomOverSampler) Name() string { return "up" }

// Resample implements Strategy. The original records are preserved in order,
// followed by the drawn duplicates.
func (RandomOverSampler) Resample(X *mat.Dense, y []float64, seed uint64) (*mat.Dense, []float64, error) {
	split, err := classSplit("resample.RandomOverSampler", X, y)
	if err != nil {
		return nil, nil, err
	}

	need := len(split.maj) - len(split.min)
	_, cols := X.Dims()
	out := mat.NewDense(len(y)+need, cols, nil)
	outY := make([]float64, 0, len(y)+need)

	for i := range y {
		out.SetRow(i, X.RawRowView(i))
		outY = append(outY, y[i])
	}

	rng := newRNG(seed)
	for i := 0; i < need; i++ {
		src := split.min[rng.IntN(len(split.min))]
		out.SetRow(len(y)+i, X.RawRowView(src))
		outY = append(outY, split.minLabel)
	}
	return out, outY, nil
}
