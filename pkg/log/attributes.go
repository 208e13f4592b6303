// Package log defines standard attribute keys for imbalance-aware evaluation runs.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in imbalearn. Using these standard keys enables better
// log analysis of cross-validation runs: which strategy, which fold, which
// hyperparameter tuple produced a given score or failure.
//
// The keys follow a hierarchical naming convention (e.g., "cv.fold",
// "search.params") to enable structured log filtering.

package log

// Operation Context
// These attributes identify the component and operation being performed.
const (
	// OperationKey specifies the evaluation operation being performed.
	// Standard values: "search", "score", "compare"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "modelselection", "resample", "metrics", "evaluation"
	ComponentKey = "ml.component"

	// StrategyKey names the imbalance remediation strategy in effect.
	// Examples: "none", "up", "down", "smote", "class_weights"
	StrategyKey = "ml.strategy"
)

// Cross-Validation Context
// These attributes locate a log record within a search run.
const (
	// FoldKey is the zero-based fold index within a repeat.
	FoldKey = "cv.fold"

	// RepeatKey is the zero-based repeat index for repeated k-fold CV.
	RepeatKey = "cv.repeat"

	// FoldsKey is the configured number of folds k.
	FoldsKey = "cv.folds"

	// ParamsKey is the string form of the hyperparameter tuple under evaluation.
	ParamsKey = "search.params"

	// GridSizeKey is the number of tuples in the hyperparameter grid.
	GridSizeKey = "search.grid_size"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// MinorityKey indicates the number of minority-class samples.
	MinorityKey = "data.minority"

	// PriorKey is the minority prevalence (minority count / total count).
	PriorKey = "data.prior"
)

// Metrics and Thresholds
const (
	// ScoreKey records the scorer value for a fold or a tuple aggregate.
	ScoreKey = "metrics.score"

	// PRAUCKey records area under the precision-recall curve.
	PRAUCKey = "metrics.pr_auc"

	// F1Key records an F1 score.
	F1Key = "metrics.f1"

	// CutoffKey records the classification threshold in effect.
	CutoffKey = "preds.cutoff"
)

// Configuration and Performance
const (
	// SeedKey records the random seed for reproducibility.
	SeedKey = "config.seed"

	// WorkersKey records the worker pool size used by a search session.
	WorkersKey = "config.workers"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Standard attribute value constants for common operations.
const (
	OperationSearch  = "search"
	OperationScore   = "score"
	OperationCompare = "compare"
)
