package modelselection

import (
	"github.com/YuminosukeSato/imbalearn/core/parallel"
	"github.com/YuminosukeSato/imbalearn/metrics"
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
	"github.com/YuminosukeSato/imbalearn/pkg/log"
	"github.com/YuminosukeSato/imbalearn/resample"
)

// SearchConfig is the immutable configuration of one grid search run. It is
// validated once before any training starts; configuration errors are fatal,
// never recovered per fold.
type SearchConfig struct {
	// Folds is the cross-validation fold count k.
	Folds int

	// Repeats is the number of repeated k-fold rounds. Zero means 1. Each
	// repeat derives its fold seed from Seed, so repeats reshuffle folds
	// while the run as a whole stays reproducible.
	Repeats int

	// Strategy is the training-side resampling strategy. Nil means no
	// remediation (resample.None).
	Strategy resample.Strategy

	// ClassWeights enables per-sample class weighting instead of resampling.
	// Mutually exclusive with a non-None Strategy.
	ClassWeights bool

	// Seed drives fold construction and strategy randomness.
	Seed uint64

	// Scorer maps validation predictions to the value maximized by the
	// search. Nil means PR-AUC.
	Scorer metrics.Scorer

	// Pool is the worker pool to fan fold tasks out on. Nil makes the search
	// run a private pool for the duration of the call.
	Pool *parallel.WorkerPool

	// Logger receives search progress and fold diagnostics. Nil uses the
	// package default.
	Logger log.Logger
}

// Validate surfaces configuration errors before any training happens.
func (c SearchConfig) Validate() error {
	if c.Folds < 2 {
		return errors.NewValueError("modelselection.SearchConfig", "fold count must be at least 2")
	}
	if c.Repeats < 0 {
		return errors.NewValueError("modelselection.SearchConfig", "repeats must not be negative")
	}
	if c.ClassWeights && c.Strategy != nil {
		if _, isNone := c.Strategy.(resample.None); !isNone {
			return errors.NewConflictingStrategyError(c.Strategy.Name())
		}
	}
	return nil
}

// strategy returns the effective resampling strategy.
func (c SearchConfig) strategy() resample.Strategy {
	if c.Strategy == nil {
		return resample.None{}
	}
	return c.Strategy
}

// strategyName is the label used in logs: the strategy name, or
// "class_weights" when weighting is in effect.
func (c SearchConfig) strategyName() string {
	if c.ClassWeights {
		return "class_weights"
	}
	return c.strategy().Name()
}

// scorer returns the effective scorer.
func (c SearchConfig) scorer() metrics.Scorer {
	if c.Scorer == nil {
		return metrics.PRAUCScorer
	}
	return c.Scorer
}

// repeats returns the effective repeat count.
func (c SearchConfig) repeats() int {
	if c.Repeats < 1 {
		return 1
	}
	return c.Repeats
}

// logger returns the effective logger.
func (c SearchConfig) logger() log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.GetLoggerWithName("modelselection")
}
