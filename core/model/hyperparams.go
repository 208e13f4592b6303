package model

import (
	"fmt"
)

// Hyperparams is one grid point: the tuple of knobs swept by grid search.
// Tuples are value types; order within a grid defines deterministic
// tie-breaking during selection.
type Hyperparams struct {
	// NumIterations is the boosting round count.
	NumIterations int

	// NumLeaves bounds per-tree complexity.
	NumLeaves int

	// LearningRate is the shrinkage applied to each boosting step.
	LearningRate float64

	// MinChildSamples is the minimum record count per leaf. Zero leaves the
	// trainer's default in place.
	MinChildSamples int
}

// String renders the tuple in a stable single-line form used in logs and
// error diagnostics.
func (p Hyperparams) String() string {
	return fmt.Sprintf("iter=%d leaves=%d lr=%.2f min_child=%d",
		p.NumIterations, p.NumLeaves, p.LearningRate, p.MinChildSamples)
}
