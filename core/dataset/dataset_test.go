package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testSchema(t *testing.T) Schema {
	t.Helper()
	schema, err := NewSchema([]string{"amount", "velocity"}, "is_fraud", 1)
	require.NoError(t, err)
	return schema
}

// 9件の多数クラス(0)と3件の少数クラス(1)の小さなデータセット
func testDataset(t *testing.T) *Dataset {
	t.Helper()
	n := 12
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i))
		x.Set(i, 1, float64(i)*10)
		if i%4 == 3 {
			y[i] = 1
		}
	}
	ds, err := New(x, y, testSchema(t))
	require.NoError(t, err)
	return ds
}

func TestNewSchemaValidation(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		label    string
		wantErr  bool
	}{
		{"valid", []string{"a", "b"}, "y", false},
		{"no features", nil, "y", true},
		{"empty label name", []string{"a"}, "", true},
		{"empty feature name", []string{"a", ""}, "y", true},
		{"duplicate feature", []string{"a", "a"}, "y", true},
		{"label collides with feature", []string{"a", "y"}, "y", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.features, tt.label, 1)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSchemaCopiesNames(t *testing.T) {
	names := []string{"a", "b"}
	schema, err := NewSchema(names, "y", 1)
	require.NoError(t, err)
	names[0] = "mutated"
	assert.Equal(t, "a", schema.FeatureNames[0])
}

func TestDatasetCounts(t *testing.T) {
	ds := testDataset(t)
	assert.Equal(t, 12, ds.Len())
	assert.Equal(t, 2, ds.NumFeatures())
	assert.Equal(t, 3, ds.MinorityCount())
	assert.Equal(t, 9, ds.MajorityCount())
	assert.InDelta(t, 0.25, ds.Prior(), 1e-12)

	assert.False(t, ds.IsPositive(0))
	assert.True(t, ds.IsPositive(3))
	assert.Equal(t, 1.0, ds.Label(3))
}

func TestDatasetCopiesInputs(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := []float64{0, 0, 1, 0}
	ds, err := New(x, y, testSchema(t))
	require.NoError(t, err)

	x.Set(0, 0, 999)
	y[0] = 1

	mx, my := ds.All().Materialize()
	assert.Equal(t, 1.0, mx.At(0, 0))
	assert.Equal(t, 0.0, my[0])
}

func TestDatasetValidation(t *testing.T) {
	schema := testSchema(t)

	t.Run("nil matrix", func(t *testing.T) {
		_, err := New(nil, []float64{0, 1}, schema)
		assert.Error(t, err)
	})
	t.Run("shape mismatch", func(t *testing.T) {
		_, err := New(mat.NewDense(3, 2, nil), []float64{0, 1}, schema)
		assert.Error(t, err)
	})
	t.Run("column count mismatch", func(t *testing.T) {
		_, err := New(mat.NewDense(2, 3, nil), []float64{0, 1}, schema)
		assert.Error(t, err)
	})
	t.Run("three label values", func(t *testing.T) {
		_, err := New(mat.NewDense(3, 2, nil), []float64{0, 1, 2}, schema)
		assert.Error(t, err)
	})
	t.Run("no positives", func(t *testing.T) {
		_, err := New(mat.NewDense(2, 2, nil), []float64{0, 0}, schema)
		assert.Error(t, err)
	})
	t.Run("no negatives", func(t *testing.T) {
		_, err := New(mat.NewDense(2, 2, nil), []float64{1, 1}, schema)
		assert.Error(t, err)
	})
	t.Run("NaN label", func(t *testing.T) {
		_, err := New(mat.NewDense(2, 2, nil), []float64{1, math.NaN()}, schema)
		assert.Error(t, err)
	})
}

func TestDatasetRawLabelDomain(t *testing.T) {
	// ラベルは0/1に限らない。-1/+1のドメインも受け付ける
	schema, err := NewSchema([]string{"a"}, "y", -1)
	require.NoError(t, err)
	ds, err := New(mat.NewDense(4, 1, []float64{1, 2, 3, 4}), []float64{1, 1, 1, -1}, schema)
	require.NoError(t, err)

	assert.Equal(t, 1, ds.MinorityCount())
	assert.True(t, ds.IsPositive(3))

	// マテリアライズ後は常に0/1で、1が陽性クラス
	_, y := ds.All().Materialize()
	assert.Equal(t, []float64{0, 0, 0, 1}, y)
}

func TestSubsetAndPartition(t *testing.T) {
	ds := testDataset(t)

	part, err := ds.Subset([]int{3, 0, 7})
	require.NoError(t, err)
	assert.Equal(t, 3, part.Len())
	assert.Equal(t, []int{3, 0, 7}, part.Indices())
	assert.Same(t, ds, part.Dataset())

	minority, majority := part.ClassCounts()
	assert.Equal(t, 2, minority)
	assert.Equal(t, 1, majority)

	// 行順はインデックス順に従う
	x, y := part.Materialize()
	assert.Equal(t, 3.0, x.At(0, 0))
	assert.Equal(t, 0.0, x.At(1, 0))
	assert.Equal(t, 7.0, x.At(2, 0))
	assert.Equal(t, []float64{1, 0, 1}, y)
	assert.Equal(t, []float64{1, 0, 1}, part.Labels())
}

func TestSubsetValidation(t *testing.T) {
	ds := testDataset(t)

	_, err := ds.Subset(nil)
	assert.Error(t, err)

	_, err = ds.Subset([]int{0, 12})
	assert.Error(t, err)

	_, err = ds.Subset([]int{-1})
	assert.Error(t, err)
}

func TestSubsetCopiesIndices(t *testing.T) {
	ds := testDataset(t)
	indices := []int{1, 2, 3}
	part, err := ds.Subset(indices)
	require.NoError(t, err)
	indices[0] = 11
	assert.Equal(t, []int{1, 2, 3}, part.Indices())
}

func TestToDataset(t *testing.T) {
	ds := testDataset(t)
	part, err := ds.Subset([]int{0, 1, 3, 7, 8})
	require.NoError(t, err)

	sub, err := part.ToDataset()
	require.NoError(t, err)
	assert.Equal(t, 5, sub.Len())
	assert.Equal(t, 2, sub.MinorityCount())
	assert.Equal(t, 1.0, sub.Schema().PositiveLabel)
	assert.Equal(t, ds.Schema().FeatureNames, sub.Schema().FeatureNames)

	// 抽出後のデータセットは元のデータセットから独立している
	x, _ := sub.All().Materialize()
	assert.Equal(t, 0.0, x.At(0, 0))
	assert.Equal(t, 3.0, x.At(2, 0))
}
