package modelselection

import (
	"context"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/imbalearn/core/dataset"
	"github.com/YuminosukeSato/imbalearn/core/model"
	"github.com/YuminosukeSato/imbalearn/core/parallel"
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
	"github.com/YuminosukeSato/imbalearn/pkg/log"
	"github.com/YuminosukeSato/imbalearn/resample"
)

// FoldError records one recovered fold failure: which tuple, repeat, and fold
// failed, and why. Failed folds are excluded from the tuple's mean score.
type FoldError struct {
	Params model.Hyperparams
	Repeat int
	Fold   int
	Err    error
}

// TupleResult aggregates the fold outcomes of one grid point.
type TupleResult struct {
	Params     model.Hyperparams
	FoldScores []float64
	Failures   []FoldError
}

// Viable reports whether at least one fold of the tuple scored successfully.
func (t TupleResult) Viable() bool { return len(t.FoldScores) > 0 }

// MeanScore is the mean over successful fold scores.
func (t TupleResult) MeanScore() float64 {
	if len(t.FoldScores) == 0 {
		return 0
	}
	return stat.Mean(t.FoldScores, nil)
}

// StdScore is the sample standard deviation over successful fold scores.
func (t TupleResult) StdScore() float64 {
	if len(t.FoldScores) < 2 {
		return 0
	}
	return stat.StdDev(t.FoldScores, nil)
}

// SearchResult is the outcome of a grid search: the winning tuple retrained
// on the full training set, plus per-tuple diagnostics.
type SearchResult struct {
	BestModel  model.Model
	BestParams model.Hyperparams

	// BestScore is the winning tuple's mean cross-validation score.
	BestScore float64

	// Tuples holds the per-grid-point fold scores and recovered failures,
	// in grid order.
	Tuples []TupleResult
}

// Failures is the total number of recovered fold failures across the grid.
func (r *SearchResult) Failures() int {
	total := 0
	for _, t := range r.Tuples {
		total += len(t.Failures)
	}
	return total
}

// GridSearch runs an exhaustive cross-validated sweep over a hyperparameter
// grid. The highest mean validation score wins; ties break toward the earlier
// grid position.
type GridSearch struct {
	Config SearchConfig
}

// NewGridSearch returns a search over the given immutable configuration.
func NewGridSearch(cfg SearchConfig) *GridSearch {
	return &GridSearch{Config: cfg}
}

// Run executes the search on a dataset.
//
// For every tuple and every one of repeats x k folds, the training partition
// is resampled or reweighted (never the validation partition), the trainer is
// fitted, and the validation predictions are scored. Fold failures are
// recovered, logged, and excluded from means; a tuple with no surviving folds
// is excluded from selection; if no tuple survives Run fails with
// NoViableModelError. The winner is retrained on the full dataset with the
// same remediation before being returned.
//
// Cancellation is cooperative: ctx is checked between task dispatches and
// in-flight folds run to completion.
func (g *GridSearch) Run(ctx context.Context, ds *dataset.Dataset, grid ParamGrid, trainer model.Trainer) (result *SearchResult, err error) {
	defer errors.Recover(&err, "modelselection.GridSearch.Run")

	cfg := g.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(grid) == 0 {
		return nil, errors.NewValueError("modelselection.GridSearch", "hyperparameter grid is empty")
	}
	if trainer == nil {
		return nil, errors.NewValueError("modelselection.GridSearch", "trainer must not be nil")
	}

	pool := cfg.Pool
	if pool == nil {
		pool = parallel.NewWorkerPool(0)
		defer pool.Stop()
	}

	start := time.Now()
	logger := cfg.logger().With(
		log.StrategyKey, cfg.strategyName(),
		log.SeedKey, cfg.Seed,
	)
	logger.Info("starting grid search",
		log.OperationKey, log.OperationSearch,
		log.GridSizeKey, len(grid),
		log.FoldsKey, cfg.Folds,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, ds.NumFeatures(),
		log.MinorityKey, ds.MinorityCount(),
		log.WorkersKey, pool.Size(),
	)

	collector := &resultCollector{tuples: make([]TupleResult, len(grid))}
	for i := range collector.tuples {
		collector.tuples[i].Params = grid[i]
	}

	for r := 0; r < cfg.repeats(); r++ {
		folds, err := NewStratifiedKFold(cfg.Folds, cfg.Seed+uint64(r)).Assign(ds)
		if err != nil {
			return nil, err
		}
		for ti := range grid {
			for fi := 0; fi < folds.NumFolds(); fi++ {
				select {
				case <-ctx.Done():
					_ = pool.Wait()
					return nil, errors.Wrap(ctx.Err(), "imbalearn: grid search cancelled")
				default:
				}
				if err := pool.Add(g.foldTask(ctx, folds, trainer, collector, logger, r, ti, fi)); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	bestIdx := -1
	for i, t := range collector.tuples {
		if !t.Viable() {
			continue
		}
		if bestIdx == -1 || t.MeanScore() > collector.tuples[bestIdx].MeanScore() {
			bestIdx = i
		}
	}
	result = &SearchResult{Tuples: collector.tuples}
	if bestIdx == -1 {
		return nil, errors.NewNoViableModelError(len(grid), result.Failures())
	}
	result.BestParams = grid[bestIdx]
	result.BestScore = collector.tuples[bestIdx].MeanScore()

	// 勝者を全学習データで再学習する。フォールドと同じ是正処理を適用する
	best, err := g.fitPartition(ctx, ds.All(), trainer, grid[bestIdx], cfg.Seed)
	if err != nil {
		return nil, errors.Wrapf(err, "imbalearn: retraining winning params %s failed", grid[bestIdx])
	}
	result.BestModel = best

	logger.Info("grid search completed",
		log.OperationKey, log.OperationSearch,
		log.ParamsKey, result.BestParams.String(),
		log.ScoreKey, result.BestScore,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// resultCollector is the only mutable state shared by fold tasks.
type resultCollector struct {
	mu     sync.Mutex
	tuples []TupleResult
}

// foldTask builds the pool job evaluating one (tuple, repeat, fold) cell.
func (g *GridSearch) foldTask(ctx context.Context, folds *FoldAssignment, trainer model.Trainer,
	collector *resultCollector, logger log.Logger, repeat, tupleIdx, fold int) parallel.Job {

	params := collector.tuples[tupleIdx].Params
	return func() error {
		score, err := g.evalFold(ctx, folds, trainer, params, repeat, tupleIdx, fold)

		collector.mu.Lock()
		defer collector.mu.Unlock()
		if err != nil {
			collector.tuples[tupleIdx].Failures = append(collector.tuples[tupleIdx].Failures,
				FoldError{Params: params, Repeat: repeat, Fold: fold, Err: err})
			logger.Warn("fold excluded from scoring", err,
				log.RepeatKey, repeat,
				log.FoldKey, fold,
				log.ParamsKey, params.String(),
			)
			return nil
		}
		collector.tuples[tupleIdx].FoldScores = append(collector.tuples[tupleIdx].FoldScores, score)
		return nil
	}
}

// evalFold trains one fold and scores its validation predictions. The
// validation partition is materialized from the dataset untouched; only the
// training side passes through the remediation.
func (g *GridSearch) evalFold(ctx context.Context, folds *FoldAssignment, trainer model.Trainer,
	params model.Hyperparams, repeat, tupleIdx, fold int) (float64, error) {

	trainPart, err := folds.Train(fold)
	if err != nil {
		return 0, err
	}
	valPart, err := folds.Val(fold)
	if err != nil {
		return 0, err
	}

	fitted, err := g.fitPartition(ctx, trainPart, trainer, params, taskSeed(g.Config.Seed, repeat, tupleIdx, fold))
	if err != nil {
		return 0, errors.NewTrainerError(params.String(), repeat, fold, err)
	}

	valX, valY := valPart.Materialize()
	scores, err := fitted.PredictProba(valX)
	if err != nil {
		return 0, errors.NewTrainerError(params.String(), repeat, fold, err)
	}
	return g.Config.scorer()(valY, scores)
}

// fitPartition fits the trainer on a materialized partition with the
// configured remediation applied to it. The winner's retrain reuses the same
// path so the promoted model sees the same treatment as its fold models.
func (g *GridSearch) fitPartition(ctx context.Context, part dataset.Partition, trainer model.Trainer,
	params model.Hyperparams, seed uint64) (model.Model, error) {

	X, y := part.Materialize()

	var weights []float64
	var err error
	if g.Config.ClassWeights {
		weights, err = resample.PerSampleWeights(y)
	} else {
		X, y, err = g.Config.strategy().Resample(X, y, seed)
	}
	if err != nil {
		return nil, err
	}
	return trainer.Fit(ctx, X, y, weights, params)
}

// taskSeed derives a deterministic per-cell seed from the run seed.
func taskSeed(base uint64, repeat, tuple, fold int) uint64 {
	s := base
	s = s*1000003 + uint64(repeat)
	s = s*1000003 + uint64(tuple)
	s = s*1000003 + uint64(fold)
	return s
}
