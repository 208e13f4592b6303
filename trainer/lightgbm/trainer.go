// Package lightgbm adapts scigo's gradient-boosted tree classifier to the
// evaluation engine's narrow training interface.
//
// The adapter is the only place the engine touches a concrete classifier:
// hyperparameter tuples map onto the classifier's builder options, labels
// travel as a single-column matrix, and the minority-class probability column
// is sliced out of the two-column PredictProba result. Deterministic mode is
// always enabled so a seeded run reproduces bit-identical models.
package lightgbm

import (
	"context"

	scigolgb "github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/core/model"
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// Trainer trains scigo LGBMClassifier models behind model.Trainer.
type Trainer struct {
	// RandomState seeds the boosting process.
	RandomState int
}

// NewTrainer returns a deterministic trainer seeded with randomState.
func NewTrainer(randomState int) *Trainer {
	return &Trainer{RandomState: randomState}
}

// Fit implements model.Trainer. A single-class training partition fails
// explicitly before any boosting starts; sampleWeight, when non-nil, must
// carry one weight per row and routes the fit through the classifier's
// weighted path.
func (t *Trainer) Fit(ctx context.Context, X mat.Matrix, y []float64, sampleWeight []float64, params model.Hyperparams) (m model.Model, err error) {
	defer errors.Recover(&err, "lightgbm.Trainer.Fit")

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "imbalearn: fit cancelled")
	default:
	}

	if X == nil || len(y) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	rows, _ := X.Dims()
	if rows != len(y) {
		return nil, errors.NewDimensionError("lightgbm.Trainer.Fit", rows, len(y), 0)
	}
	if sampleWeight != nil && len(sampleWeight) != rows {
		return nil, errors.NewDimensionError("lightgbm.Trainer.Fit", rows, len(sampleWeight), 0)
	}

	var sawPos, sawNeg bool
	for _, label := range y {
		if label == 1 {
			sawPos = true
		} else {
			sawNeg = true
		}
	}
	if !sawPos || !sawNeg {
		return nil, errors.NewValueError("lightgbm.Trainer.Fit", "training partition contains a single class")
	}

	clf := scigolgb.NewLGBMClassifier().
		WithNumIterations(params.NumIterations).
		WithNumLeaves(params.NumLeaves).
		WithLearningRate(params.LearningRate).
		WithRandomState(t.RandomState).
		WithDeterministic(true)
	if params.MinChildSamples > 0 {
		clf.MinChildSamples = params.MinChildSamples
	}

	yMat := mat.NewDense(len(y), 1, append([]float64(nil), y...))
	if sampleWeight != nil {
		err = clf.FitWeighted(X, yMat, sampleWeight)
	} else {
		err = clf.Fit(X, yMat)
	}
	if err != nil {
		return nil, errors.Wrap(err, "imbalearn: lightgbm fit failed")
	}
	return &Model{clf: clf}, nil
}

// Model wraps a fitted classifier as an opaque model handle. The zero value
// is unfitted and rejects prediction with NotFittedError; usable handles come
// out of Trainer.Fit only.
type Model struct {
	clf *scigolgb.LGBMClassifier
}

// PredictProba implements model.Model: the positive-class probability column
// of the classifier's two-column output.
func (m *Model) PredictProba(X mat.Matrix) ([]float64, error) {
	if m.clf == nil {
		return nil, errors.NewNotFittedError("lightgbm.Model", "PredictProba")
	}
	proba, err := m.clf.PredictProba(X)
	if err != nil {
		return nil, errors.Wrap(err, "imbalearn: lightgbm predict failed")
	}
	rows, cols := proba.Dims()
	if cols != 2 {
		return nil, errors.NewDimensionError("lightgbm.PredictProba", 2, cols, 1)
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = proba.At(i, 1)
	}
	if err := errors.CheckProbabilities("lightgbm.PredictProba", out); err != nil {
		return nil, err
	}
	return out, nil
}
