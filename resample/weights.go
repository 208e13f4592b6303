package resample

import (
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// ClassWeights computes per-class weights for a training partition:
// weight(c) = 0.5 / count(c), so the weights across the partition sum to 1
// and both classes carry equal expected total influence.
//
// Weighting is mutually exclusive with a resampling strategy within a single
// run; the search engine rejects configurations requesting both.
func ClassWeights(y []float64) (map[float64]float64, error) {
	if len(y) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	counts := make(map[float64]int, 2)
	for _, label := range y {
		counts[label]++
		if len(counts) > 2 {
			return nil, errors.NewValueError("resample.ClassWeights", "label domain must contain exactly two values")
		}
	}
	if len(counts) < 2 {
		return nil, errors.NewValueError("resample.ClassWeights", "partition contains a single class")
	}

	weights := make(map[float64]float64, 2)
	for label, count := range counts {
		weights[label] = 0.5 / float64(count)
	}
	return weights, nil
}

// PerSampleWeights expands ClassWeights into one weight per record, the form
// consumed by trainers supporting weighted fitting.
func PerSampleWeights(y []float64) ([]float64, error) {
	weights, err := ClassWeights(y)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	for i, label := range y {
		out[i] = weights[label]
	}
	return out, nil
}
