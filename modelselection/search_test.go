package modelselection

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/imbalearn/core/dataset"
	"github.com/YuminosukeSato/imbalearn/core/model"
	"github.com/YuminosukeSato/imbalearn/core/parallel"
	"github.com/YuminosukeSato/imbalearn/metrics"
	imberr "github.com/YuminosukeSato/imbalearn/pkg/errors"
	"github.com/YuminosukeSato/imbalearn/pkg/log"
	"github.com/YuminosukeSato/imbalearn/resample"
)

// centroidModel scores a row by its relative distance to the per-class
// training centroids. Cheap, deterministic, and genuinely better than chance
// when the classes are separated, which is all the search tests need.
type centroidModel struct {
	pos, neg []float64
}

func (m *centroidModel) PredictProba(X mat.Matrix) ([]float64, error) {
	rows, cols := X.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		var dPos, dNeg float64
		for j := 0; j < cols; j++ {
			v := X.At(i, j)
			dPos += (v - m.pos[j]) * (v - m.pos[j])
			dNeg += (v - m.neg[j]) * (v - m.neg[j])
		}
		if dPos+dNeg == 0 {
			out[i] = 0.5
		} else {
			out[i] = dNeg / (dPos + dNeg)
		}
	}
	return out, nil
}

type centroidTrainer struct {
	mu   sync.Mutex
	fits int

	// failOn fails Fit for a marked tuple, nil disables.
	failOn func(model.Hyperparams) bool
}

func (tr *centroidTrainer) fitCount() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.fits
}

func (tr *centroidTrainer) Fit(_ context.Context, X mat.Matrix, y []float64, sampleWeight []float64, params model.Hyperparams) (model.Model, error) {
	tr.mu.Lock()
	tr.fits++
	tr.mu.Unlock()

	if tr.failOn != nil && tr.failOn(params) {
		return nil, fmt.Errorf("injected failure for %s", params)
	}

	rows, cols := X.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("shape mismatch: %d rows, %d labels", rows, len(y))
	}
	pos := make([]float64, cols)
	neg := make([]float64, cols)
	var wPos, wNeg float64
	for i, label := range y {
		w := 1.0
		if sampleWeight != nil {
			w = sampleWeight[i]
		}
		for j := 0; j < cols; j++ {
			if label == 1 {
				pos[j] += w * X.At(i, j)
			} else {
				neg[j] += w * X.At(i, j)
			}
		}
		if label == 1 {
			wPos += w
		} else {
			wNeg += w
		}
	}
	if wPos == 0 || wNeg == 0 {
		return nil, fmt.Errorf("single-class training partition")
	}
	for j := 0; j < cols; j++ {
		pos[j] /= wPos
		neg[j] /= wNeg
	}
	return &centroidModel{pos: pos, neg: neg}, nil
}

// gaussianDataset draws majority features from N(0,1) and minority features
// from N(sep,1).
func gaussianDataset(t *testing.T, nMaj, nMin, nFeatures int, sep float64) *dataset.Dataset {
	t.Helper()
	names := make([]string, nFeatures)
	for j := range names {
		names[j] = fmt.Sprintf("f%d", j)
	}
	schema, err := dataset.NewSchema(names, "target", 1)
	require.NoError(t, err)

	n := nMaj + nMin
	x := mat.NewDense(n, nFeatures, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		mu := 0.0
		if i >= nMaj {
			mu = sep
			y[i] = 1
		}
		for j := 0; j < nFeatures; j++ {
			x.Set(i, j, distuv.Normal{Mu: mu, Sigma: 1}.Rand())
		}
	}
	ds, err := dataset.New(x, y, schema)
	require.NoError(t, err)
	return ds
}

func TestSearchConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SearchConfig
		wantErr bool
	}{
		{"valid", SearchConfig{Folds: 5}, false},
		{"weights alone", SearchConfig{Folds: 5, ClassWeights: true}, false},
		{"weights with explicit none", SearchConfig{Folds: 5, ClassWeights: true, Strategy: resample.None{}}, false},
		{"weights with resampling", SearchConfig{Folds: 5, ClassWeights: true, Strategy: resample.RandomOverSampler{}}, true},
		{"too few folds", SearchConfig{Folds: 1}, true},
		{"negative repeats", SearchConfig{Folds: 5, Repeats: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGridSearchConflictRejectedBeforeTraining(t *testing.T) {
	ds := imbalancedDataset(t, 90, 10)
	trainer := &centroidTrainer{}
	search := NewGridSearch(SearchConfig{
		Folds:        5,
		Strategy:     resample.RandomUnderSampler{},
		ClassWeights: true,
		Seed:         42,
	})

	_, err := search.Run(context.Background(), ds, Expand([]int{10}, []int{7}, []float64{0.1}, nil), trainer)
	require.Error(t, err)

	var conflict *imberr.ConflictingStrategyError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "down", conflict.Strategy)
	assert.Equal(t, 0, trainer.fitCount(), "no training may happen before config validation fails")
}

func TestGridSearchSelectsBestAndBreaksTiesByOrder(t *testing.T) {
	ds := imbalancedDataset(t, 90, 10)
	trainer := &centroidTrainer{}

	// 同一タプル2つのグリッドではスコアが同点になり、先頭が勝つ
	grid := ParamGrid{
		{NumIterations: 10, NumLeaves: 7, LearningRate: 0.1},
		{NumIterations: 10, NumLeaves: 7, LearningRate: 0.1, MinChildSamples: 99},
	}
	search := NewGridSearch(SearchConfig{Folds: 5, Seed: 42})
	result, err := search.Run(context.Background(), ds, grid, trainer)
	require.NoError(t, err)

	assert.Equal(t, grid[0], result.BestParams)
	assert.NotNil(t, result.BestModel)
	require.Len(t, result.Tuples, 2)
	assert.InDelta(t, result.Tuples[0].MeanScore(), result.Tuples[1].MeanScore(), 1e-12)
}

func TestGridSearchAggregatesFoldFailures(t *testing.T) {
	ds := imbalancedDataset(t, 90, 10)
	trainer := &centroidTrainer{
		failOn: func(p model.Hyperparams) bool { return p.NumIterations == 13 },
	}
	grid := Expand([]int{13, 50}, []int{7}, []float64{0.1}, nil)
	logger, _ := log.NewTestLogger(log.LevelDebug)
	search := NewGridSearch(SearchConfig{Folds: 5, Seed: 42, Logger: logger})

	result, err := search.Run(context.Background(), ds, grid, trainer)
	require.NoError(t, err)

	// 全フォールド失敗のタプルは選考から除外され、診断として残る
	assert.False(t, result.Tuples[0].Viable())
	require.Len(t, result.Tuples[0].Failures, 5)
	var trainerErr *imberr.TrainerError
	assert.ErrorAs(t, result.Tuples[0].Failures[0].Err, &trainerErr)

	assert.Equal(t, 50, result.BestParams.NumIterations)
	assert.Equal(t, 5, result.Failures())

	// 失敗したフォールドはフォールドとタプルの文脈付きで警告ログに残る
	assert.True(t, logger.ContainsMessage("fold excluded from scoring"))
	assert.True(t, logger.ContainsField(log.ParamsKey, grid[0].String()))

	// 開始ログにはデータ形状、完了ログには所要時間が記録される
	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	var sawFeatures, sawDuration bool
	for _, e := range entries {
		switch e["message"] {
		case "starting grid search":
			_, sawFeatures = e[log.FeaturesKey]
		case "grid search completed":
			_, sawDuration = e[log.DurationMsKey]
		}
	}
	assert.True(t, sawFeatures)
	assert.True(t, sawDuration)
}

func TestGridSearchNoViableModel(t *testing.T) {
	ds := imbalancedDataset(t, 90, 10)
	trainer := &centroidTrainer{
		failOn: func(model.Hyperparams) bool { return true },
	}
	search := NewGridSearch(SearchConfig{Folds: 5, Seed: 42})

	_, err := search.Run(context.Background(), ds, Expand([]int{10, 20}, []int{7}, []float64{0.1}, nil), trainer)
	require.Error(t, err)

	var noViable *imberr.NoViableModelError
	require.ErrorAs(t, err, &noViable)
	assert.Equal(t, 2, noViable.Tuples)
	assert.Equal(t, 10, noViable.Failures)
}

func TestGridSearchCancellation(t *testing.T) {
	ds := imbalancedDataset(t, 90, 10)
	trainer := &centroidTrainer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := NewGridSearch(SearchConfig{Folds: 5, Seed: 42})
	_, err := search.Run(ctx, ds, Expand([]int{10}, []int{7}, []float64{0.1}, nil), trainer)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, trainer.fitCount())
}

// recordingTrainer captures the row identities of every Fit call. Feature 0
// carries the record index, so leakage is observable.
type recordingTrainer struct {
	centroidTrainer
	calls []map[float64]bool
}

func (tr *recordingTrainer) Fit(ctx context.Context, X mat.Matrix, y []float64, sampleWeight []float64, params model.Hyperparams) (model.Model, error) {
	rows, _ := X.Dims()
	ids := make(map[float64]bool, rows)
	for i := 0; i < rows; i++ {
		ids[X.At(i, 0)] = true
	}
	tr.mu.Lock()
	tr.calls = append(tr.calls, ids)
	tr.mu.Unlock()
	return tr.centroidTrainer.Fit(ctx, X, y, sampleWeight, params)
}

func TestGridSearchNeverTouchesValidationFolds(t *testing.T) {
	const seed = 42
	ds := imbalancedDataset(t, 40, 10)
	trainer := &recordingTrainer{}

	// 1ワーカーのプールで学習呼び出しの順序をフォールド順に固定する
	pool := parallel.NewWorkerPool(1)
	defer pool.Stop()

	search := NewGridSearch(SearchConfig{
		Folds:    5,
		Strategy: resample.RandomOverSampler{},
		Seed:     seed,
		Pool:     pool,
	})
	result, err := search.Run(context.Background(), ds, Expand([]int{10}, []int{7}, []float64{0.1}, nil), trainer)
	require.NoError(t, err)
	require.NotNil(t, result.BestModel)

	// 5フォールド + 勝者の再学習
	require.Len(t, trainer.calls, 6)

	// 同一シードのフォールド割当を再構成すると検証側がビット単位で一致する
	folds, err := NewStratifiedKFold(5, seed).Assign(ds)
	require.NoError(t, err)
	for fi := 0; fi < 5; fi++ {
		val, err := folds.Val(fi)
		require.NoError(t, err)
		train, err := folds.Train(fi)
		require.NoError(t, err)

		trainIDs := make(map[float64]bool)
		for _, idx := range train.Indices() {
			trainIDs[float64(idx)] = true
		}
		for id := range trainer.calls[fi] {
			assert.True(t, trainIDs[id], "fold %d trained on record %g outside its training side", fi, id)
		}
		for _, idx := range val.Indices() {
			assert.False(t, trainer.calls[fi][float64(idx)],
				"fold %d validation record %d leaked into training", fi, idx)
		}
	}

	// 最後の呼び出しは全データでの再学習
	assert.Len(t, trainer.calls[5], ds.Len())
}

func TestGridSearchEndToEndImbalanced(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end search in short mode")
	}

	// 10,000件、少数クラス1.21%
	ds := gaussianDataset(t, 9879, 121, 4, 2.0)
	assert.InDelta(t, 0.0121, ds.Prior(), 1e-4)

	grid := Expand([]int{10, 50, 100}, []int{7, 15, 31}, []float64{0.1}, []int{5, 20})
	require.Len(t, grid, 18)

	trainer := &centroidTrainer{}
	search := NewGridSearch(SearchConfig{
		Folds:    5,
		Repeats:  1,
		Strategy: resample.RandomOverSampler{},
		Seed:     42,
	})
	result, err := search.Run(context.Background(), ds, grid, trainer)
	require.NoError(t, err)

	require.Len(t, result.Tuples, 18)
	for i, tuple := range result.Tuples {
		assert.Len(t, tuple.FoldScores, 5, "tuple %d", i)
		assert.Empty(t, tuple.Failures, "tuple %d", i)
	}

	// 無スキル基準: 全レコードに同一スコアを与える分類器のPR-AUCは
	// アンカー規約の下で (prior+1)/2 になる。最良タプルはこれを上回ること
	_, yAll := ds.All().Materialize()
	constant := make([]float64, len(yAll))
	for i := range constant {
		constant[i] = 0.5
	}
	noSkill, err := metrics.PRAUC(yAll, constant)
	require.NoError(t, err)
	assert.InDelta(t, (1+ds.Prior())/2, noSkill, 1e-9)
	assert.Greater(t, result.BestScore, noSkill)
	assert.NotNil(t, result.BestModel)
}

func TestGridSearchRepeatsReshuffleFolds(t *testing.T) {
	ds := imbalancedDataset(t, 90, 10)
	trainer := &centroidTrainer{}
	search := NewGridSearch(SearchConfig{Folds: 5, Repeats: 3, Seed: 42})

	result, err := search.Run(context.Background(), ds, Expand([]int{10}, []int{7}, []float64{0.1}, nil), trainer)
	require.NoError(t, err)

	// repeats×k のフォールドスコアが集まり、+1は勝者の再学習
	require.Len(t, result.Tuples, 1)
	assert.Len(t, result.Tuples[0].FoldScores, 15)
	assert.Equal(t, 16, trainer.fitCount())
}
