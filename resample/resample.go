// Package resample provides the class-imbalance remediation strategies
// applied to training partitions: random over-sampling, random
// under-sampling, SMOTE, and per-sample class weighting.
//
// Strategies operate on a materialized training partition only and never
// read records outside the matrices they are handed, so fold boundaries
// cannot leak. Every strategy is deterministic for a given seed.
package resample

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// Strategy transforms a training partition into a rebalanced one.
//
// X is the feature matrix, y the binary label vector (any two distinct
// values; the minority class is the one with fewer records). Implementations
// return fresh matrices and must be reproducible per seed.
type Strategy interface {
	Name() string
	Resample(X *mat.Dense, y []float64, seed uint64) (*mat.Dense, []float64, error)
}

// None is the identity strategy: the baseline with no remediation.
type None struct{}

// Name implements Strategy.
func (None) Name() string { return "none" }

// Resample returns the partition unchanged.
func (None) Resample(X *mat.Dense, y []float64, _ uint64) (*mat.Dense, []float64, error) {
	if _, err := classSplit("resample.None", X, y); err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

// classes holds the per-class index split of a partition, with the minority
// class identified by record count.
type classes struct {
	minLabel float64
	majLabel float64
	min      []int
	maj      []int
}

// classSplit partitions record indices by class and identifies the minority.
// It validates shape agreement and the two-class invariant shared by every
// strategy.
func classSplit(op string, X *mat.Dense, y []float64) (classes, error) {
	if X == nil || len(y) == 0 {
		return classes{}, errors.WithStack(errors.ErrEmptyData)
	}
	rows, _ := X.Dims()
	if rows != len(y) {
		return classes{}, errors.NewDimensionError(op, rows, len(y), 0)
	}

	labelA := y[0]
	sawB := false
	var labelB float64
	var idxA, idxB []int
	for i, label := range y {
		switch {
		case label == labelA:
			idxA = append(idxA, i)
		case !sawB:
			labelB = label
			sawB = true
			idxB = append(idxB, i)
		case label == labelB:
			idxB = append(idxB, i)
		default:
			return classes{}, errors.NewValueError(op, "label domain must contain exactly two values")
		}
	}
	if !sawB {
		return classes{}, errors.NewValueError(op, "partition contains a single class")
	}

	if len(idxA) <= len(idxB) {
		return classes{minLabel: labelA, majLabel: labelB, min: idxA, maj: idxB}, nil
	}
	return classes{minLabel: labelB, majLabel: labelA, min: idxB, maj: idxA}, nil
}

// newRNG is the seeded PCG source shared by all strategies.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
