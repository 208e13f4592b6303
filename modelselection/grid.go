package modelselection

import (
	"github.com/YuminosukeSato/imbalearn/core/model"
)

// ParamGrid is an ordered list of hyperparameter tuples. Grid order is
// significant: score ties during selection break toward the earlier tuple.
type ParamGrid []model.Hyperparams

// Expand builds the cartesian product of the given axis values, in a
// deterministic order (iterations outermost, minChildSamples innermost).
// An empty minChildSamples axis means the trainer default, encoded as 0.
func Expand(iterations, leaves []int, rates []float64, minChildSamples []int) ParamGrid {
	if len(minChildSamples) == 0 {
		minChildSamples = []int{0}
	}
	grid := make(ParamGrid, 0, len(iterations)*len(leaves)*len(rates)*len(minChildSamples))
	for _, iter := range iterations {
		for _, nl := range leaves {
			for _, lr := range rates {
				for _, mc := range minChildSamples {
					grid = append(grid, model.Hyperparams{
						NumIterations:   iter,
						NumLeaves:       nl,
						LearningRate:    lr,
						MinChildSamples: mc,
					})
				}
			}
		}
	}
	return grid
}
