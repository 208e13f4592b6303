package modelselection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/core/dataset"
	imberr "github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// imbalancedDataset builds nMaj majority (0) then nMin minority (1) records,
// feature 0 carrying the record index as identity.
func imbalancedDataset(t *testing.T, nMaj, nMin int) *dataset.Dataset {
	t.Helper()
	schema, err := dataset.NewSchema([]string{"id", "value"}, "target", 1)
	require.NoError(t, err)

	n := nMaj + nMin
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i))
		x.Set(i, 1, float64(i%13))
		if i >= nMaj {
			y[i] = 1
		}
	}
	ds, err := dataset.New(x, y, schema)
	require.NoError(t, err)
	return ds
}

func TestTrainTestSplitStratified(t *testing.T) {
	ds := imbalancedDataset(t, 970, 30)

	train, test, err := TrainTestSplit(ds, 0.25, 42)
	require.NoError(t, err)

	testMin, testMaj := test.ClassCounts()
	trainMin, trainMaj := train.ClassCounts()

	// round(30*0.25)=8, round(970*0.25)=243
	assert.Equal(t, 8, testMin)
	assert.Equal(t, 243, testMaj)
	assert.Equal(t, 22, trainMin)
	assert.Equal(t, 727, trainMaj)

	// 分割は全レコードを重複なく覆う
	seen := make(map[int]bool, ds.Len())
	for _, idx := range append(train.Indices(), test.Indices()...) {
		assert.False(t, seen[idx], "record %d assigned twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, ds.Len())
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	ds := imbalancedDataset(t, 200, 20)

	train1, test1, err := TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)
	train2, test2, err := TrainTestSplit(ds, 0.3, 7)
	require.NoError(t, err)
	assert.Equal(t, train1.Indices(), train2.Indices())
	assert.Equal(t, test1.Indices(), test2.Indices())

	_, test3, err := TrainTestSplit(ds, 0.3, 8)
	require.NoError(t, err)
	assert.NotEqual(t, test1.Indices(), test3.Indices())
}

func TestTrainTestSplitValidation(t *testing.T) {
	ds := imbalancedDataset(t, 100, 10)

	_, _, err := TrainTestSplit(nil, 0.2, 1)
	assert.Error(t, err)

	_, _, err = TrainTestSplit(ds, 0, 1)
	assert.Error(t, err)

	_, _, err = TrainTestSplit(ds, 1, 1)
	assert.Error(t, err)

	// 少数クラス1件では両側を空でなく保てない
	tiny := imbalancedDataset(t, 50, 1)
	_, _, err = TrainTestSplit(tiny, 0.2, 1)
	require.Error(t, err)
	var insufficient *imberr.InsufficientSamplesError
	assert.ErrorAs(t, err, &insufficient)
}

func TestStratifiedKFoldAssign(t *testing.T) {
	ds := imbalancedDataset(t, 95, 17)
	folds, err := NewStratifiedKFold(5, 42).Assign(ds)
	require.NoError(t, err)
	require.Equal(t, 5, folds.NumFolds())

	seen := make(map[int]bool, ds.Len())
	for i := 0; i < folds.NumFolds(); i++ {
		val, err := folds.Val(i)
		require.NoError(t, err)

		// 各フォールドはクラスごとに floor(n_c/k) または ceil(n_c/k) 件を受け取る
		minority, majority := val.ClassCounts()
		assert.Contains(t, []int{3, 4}, minority, "fold %d minority count", i)
		assert.Contains(t, []int{19}, majority, "fold %d majority count", i)

		for _, idx := range val.Indices() {
			assert.False(t, seen[idx], "record %d in two folds", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, ds.Len())
}

func TestStratifiedKFoldTrainValComplement(t *testing.T) {
	ds := imbalancedDataset(t, 40, 10)
	folds, err := NewStratifiedKFold(5, 3).Assign(ds)
	require.NoError(t, err)

	for i := 0; i < folds.NumFolds(); i++ {
		val, err := folds.Val(i)
		require.NoError(t, err)
		train, err := folds.Train(i)
		require.NoError(t, err)

		assert.Equal(t, ds.Len(), val.Len()+train.Len())
		inVal := make(map[int]bool)
		for _, idx := range val.Indices() {
			inVal[idx] = true
		}
		for _, idx := range train.Indices() {
			assert.False(t, inVal[idx], "fold %d: record %d on both sides", i, idx)
		}
	}
}

func TestStratifiedKFoldDeterministic(t *testing.T) {
	ds := imbalancedDataset(t, 90, 15)

	a, err := NewStratifiedKFold(5, 11).Assign(ds)
	require.NoError(t, err)
	b, err := NewStratifiedKFold(5, 11).Assign(ds)
	require.NoError(t, err)

	for i := 0; i < a.NumFolds(); i++ {
		valA, err := a.Val(i)
		require.NoError(t, err)
		valB, err := b.Val(i)
		require.NoError(t, err)
		assert.Equal(t, valA.Indices(), valB.Indices(), "fold %d differs under identical seeds", i)
	}
}

func TestStratifiedKFoldInsufficientMinority(t *testing.T) {
	ds := imbalancedDataset(t, 100, 3)
	_, err := NewStratifiedKFold(5, 1).Assign(ds)
	require.Error(t, err)

	var insufficient *imberr.InsufficientSamplesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1.0, insufficient.Label)
	assert.Equal(t, 3, insufficient.Count)
	assert.Equal(t, 5, insufficient.Required)
}

func TestStratifiedKFoldValidation(t *testing.T) {
	ds := imbalancedDataset(t, 20, 10)

	_, err := NewStratifiedKFold(1, 1).Assign(ds)
	assert.Error(t, err)

	folds, err := NewStratifiedKFold(2, 1).Assign(ds)
	require.NoError(t, err)
	_, err = folds.Val(2)
	assert.Error(t, err)
	_, err = folds.Train(-1)
	assert.Error(t, err)
}

func TestExpandGrid(t *testing.T) {
	grid := Expand([]int{10, 50}, []int{7, 15}, []float64{0.1, 0.3}, []int{5})
	require.Len(t, grid, 8)

	// 順序は決定的: iterationsが最外、minChildSamplesが最内
	assert.Equal(t, 10, grid[0].NumIterations)
	assert.Equal(t, 7, grid[0].NumLeaves)
	assert.Equal(t, 0.1, grid[0].LearningRate)
	assert.Equal(t, 0.3, grid[1].LearningRate)
	assert.Equal(t, 15, grid[2].NumLeaves)
	assert.Equal(t, 50, grid[4].NumIterations)

	// minChildSamples省略時はトレーナー既定(0)が入る
	withDefault := Expand([]int{10}, []int{7}, []float64{0.1}, nil)
	require.Len(t, withDefault, 1)
	assert.Equal(t, 0, withDefault[0].MinChildSamples)
}
