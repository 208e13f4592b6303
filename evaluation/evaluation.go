// Package evaluation runs named remediation configurations head to head and
// produces the comparison report: for each candidate, the best
// hyperparameters from cross-validated grid search, the cross-validation
// score, and held-out test metrics including the F1-optimal cutoff.
//
// All candidates share one stratified train/test split, one worker pool, and
// one seed, so fold construction replays identically across strategies and
// their scores are directly comparable.
package evaluation

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/core/dataset"
	"github.com/YuminosukeSato/imbalearn/core/model"
	"github.com/YuminosukeSato/imbalearn/core/parallel"
	"github.com/YuminosukeSato/imbalearn/metrics"
	"github.com/YuminosukeSato/imbalearn/modelselection"
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
	"github.com/YuminosukeSato/imbalearn/pkg/log"
	"github.com/YuminosukeSato/imbalearn/resample"
)

// Candidate is one named remediation configuration entered into a comparison.
type Candidate struct {
	// Name keys the candidate in the report. Must be unique within a run.
	Name string

	// Strategy is the training-side resampling strategy, nil for none.
	Strategy resample.Strategy

	// ClassWeights enables class weighting instead of resampling.
	ClassWeights bool
}

// Config is the immutable configuration of one comparison run.
type Config struct {
	// Folds is the cross-validation fold count used inside each search.
	Folds int

	// Repeats is the repeated k-fold round count. Zero means 1.
	Repeats int

	// Seed drives the shared train/test split and every candidate's fold
	// construction, keeping candidates comparable.
	Seed uint64

	// TestFraction is the held-out share of the dataset. Zero means 0.2.
	TestFraction float64

	// Scorer is the value maximized inside each search. Nil means PR-AUC.
	Scorer metrics.Scorer

	// Workers bounds the shared worker pool. Zero or negative uses the CPU
	// core count.
	Workers int

	// DefaultCutoff is the conventional threshold reported alongside the
	// F1-optimal one. Zero means 0.5.
	DefaultCutoff float64

	// Logger receives run progress. Nil uses the package default.
	Logger log.Logger
}

func (c Config) testFraction() float64 {
	if c.TestFraction == 0 {
		return 0.2
	}
	return c.TestFraction
}

func (c Config) defaultCutoff() float64 {
	if c.DefaultCutoff == 0 {
		return 0.5
	}
	return c.DefaultCutoff
}

func (c Config) logger() log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.GetLoggerWithName("evaluation")
}

// Result is one candidate's outcome: what won cross-validation and how it
// performs on the held-out test partition.
type Result struct {
	Name       string
	BestParams model.Hyperparams

	// CVScore is the winning tuple's mean cross-validation score.
	CVScore float64

	// TestPRAUC is the area under the test-partition precision-recall curve.
	TestPRAUC float64

	// Curve is the full test-partition precision-recall curve.
	Curve metrics.PRCurve

	// Cutoff is the F1-optimal threshold found on the test partition.
	Cutoff float64

	// AtDefault and AtOptimal are the test confusion matrices at the
	// conventional and at the F1-optimal cutoff.
	AtDefault metrics.ConfusionMatrix
	AtOptimal metrics.ConfusionMatrix
}

// Report maps candidate name to result. Pure data; rendering belongs to
// consumers.
type Report map[string]*Result

// Compare evaluates every candidate on one shared stratified train/test
// split: a full grid search per candidate on the training side, then
// held-out scoring of each winner on the identical test partition.
func Compare(ctx context.Context, ds *dataset.Dataset, candidates []Candidate,
	grid modelselection.ParamGrid, trainer model.Trainer, cfg Config) (report Report, err error) {

	defer errors.Recover(&err, "evaluation.Compare")

	if ds == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(candidates) == 0 {
		return nil, errors.NewValueError("evaluation.Compare", "at least one candidate is required")
	}
	names := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Name == "" {
			return nil, errors.NewValueError("evaluation.Compare", "candidate names must not be empty")
		}
		if names[c.Name] {
			return nil, errors.NewValidationError("candidates", "duplicate candidate name", c.Name)
		}
		names[c.Name] = true
	}

	logger := cfg.logger().With(log.SeedKey, cfg.Seed)

	train, test, err := modelselection.TrainTestSplit(ds, cfg.testFraction(), cfg.Seed)
	if err != nil {
		return nil, err
	}
	trainDS, err := train.ToDataset()
	if err != nil {
		return nil, err
	}
	testX, testY := test.Materialize()

	// セッションで1つのプールを確保し、全候補の探索で共有する
	pool := parallel.NewWorkerPool(cfg.Workers)
	defer pool.Stop()

	logger.Info("starting strategy comparison",
		log.OperationKey, log.OperationCompare,
		log.SamplesKey, ds.Len(),
		log.MinorityKey, ds.MinorityCount(),
		log.PriorKey, ds.Prior(),
		log.GridSizeKey, len(grid),
		log.WorkersKey, pool.Size(),
	)

	report = make(Report, len(candidates))
	for _, candidate := range candidates {
		result, err := evaluateCandidate(ctx, candidate, trainDS, testX, testY, grid, trainer, cfg, pool, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "imbalearn: candidate %q failed", candidate.Name)
		}
		report[candidate.Name] = result
	}
	return report, nil
}

func evaluateCandidate(ctx context.Context, candidate Candidate, trainDS *dataset.Dataset,
	testX *mat.Dense, testY []float64, grid modelselection.ParamGrid, trainer model.Trainer,
	cfg Config, pool *parallel.WorkerPool, logger log.Logger) (*Result, error) {

	search := modelselection.NewGridSearch(modelselection.SearchConfig{
		Folds:        cfg.Folds,
		Repeats:      cfg.Repeats,
		Strategy:     candidate.Strategy,
		ClassWeights: candidate.ClassWeights,
		Seed:         cfg.Seed,
		Scorer:       cfg.Scorer,
		Pool:         pool,
		Logger:       logger,
	})
	searchResult, err := search.Run(ctx, trainDS, grid, trainer)
	if err != nil {
		return nil, err
	}

	scores, err := searchResult.BestModel.PredictProba(testX)
	if err != nil {
		return nil, err
	}
	if err := errors.CheckProbabilities("evaluation.Compare", scores); err != nil {
		return nil, err
	}

	curve, err := metrics.PrecisionRecallCurve(testY, scores)
	if err != nil {
		return nil, err
	}
	cutoff, err := curve.BestF1Cutoff()
	if err != nil {
		return nil, err
	}
	atDefault, err := metrics.NewConfusionMatrix(testY, scores, cfg.defaultCutoff())
	if err != nil {
		return nil, err
	}
	atOptimal, err := metrics.NewConfusionMatrix(testY, scores, cutoff)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Name:       candidate.Name,
		BestParams: searchResult.BestParams,
		CVScore:    searchResult.BestScore,
		TestPRAUC:  curve.AUC(),
		Curve:      curve,
		Cutoff:     cutoff,
		AtDefault:  atDefault,
		AtOptimal:  atOptimal,
	}
	logger.Info("candidate evaluated",
		log.OperationKey, log.OperationCompare,
		log.StrategyKey, candidate.Name,
		log.ParamsKey, result.BestParams.String(),
		log.ScoreKey, result.CVScore,
		log.PRAUCKey, result.TestPRAUC,
		log.CutoffKey, result.Cutoff,
		log.F1Key, result.AtOptimal.F1(),
	)
	return result, nil
}
