// Package model defines the narrow interfaces through which the evaluation
// engine consumes an external classifier, together with the hyperparameter
// tuple type swept by grid search.
//
// The engine never sees the classifier's internals. A Trainer turns a
// training partition into an opaque Model; a Model scores feature rows with
// minority-class probabilities. Everything else (boosting, regularization,
// early stopping) belongs to the implementation behind the interface.
package model

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Model is an opaque trained classifier handle. Models are owned by the grid
// search until the winning configuration's retrain is promoted to the caller.
type Model interface {
	// PredictProba returns the positive-class probability for each row of X,
	// in [0, 1].
	PredictProba(X mat.Matrix) ([]float64, error)
}

// Trainer is the external training collaborator.
//
// Implementations must fail explicitly on a degenerate single-class y rather
// than silently returning constant scores. sampleWeight may be nil; when
// non-nil it carries one weight per row of X.
type Trainer interface {
	Fit(ctx context.Context, X mat.Matrix, y []float64, sampleWeight []float64, params Hyperparams) (Model, error)
}
