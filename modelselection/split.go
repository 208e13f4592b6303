// Package modelselection provides stratified data splitting and the
// cross-validated grid search engine.
//
// Splits are stratified: every partition preserves each class's proportion as
// closely as integer arithmetic allows, which keeps minority records present
// in every fold of an extremely imbalanced dataset. All splitting is
// deterministic for a given seed, so two searches constructed with the same
// seed replay identical folds and their scores stay comparable across
// remediation strategies.
package modelselection

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/imbalearn/core/dataset"
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// TrainTestSplit partitions a dataset into stratified train and test views.
// Each class contributes round(count * testFraction) records to the test
// side. It fails with InsufficientSamplesError when a class would leave
// either side empty.
func TrainTestSplit(ds *dataset.Dataset, testFraction float64, seed uint64) (train, test dataset.Partition, err error) {
	if ds == nil {
		return dataset.Partition{}, dataset.Partition{}, errors.WithStack(errors.ErrEmptyData)
	}
	if err := errors.CheckScalar("modelselection.TrainTestSplit", testFraction, 0); err != nil {
		return dataset.Partition{}, dataset.Partition{}, err
	}
	if testFraction <= 0 || testFraction >= 1 {
		return dataset.Partition{}, dataset.Partition{},
			errors.NewValueError("modelselection.TrainTestSplit", "testFraction must be in (0, 1)")
	}

	rng := newRNG(seed)
	var trainIdx, testIdx []int
	for _, class := range classIndices(ds) {
		nTest := int(math.Round(float64(len(class.indices)) * testFraction))
		if nTest < 1 || nTest >= len(class.indices) {
			return dataset.Partition{}, dataset.Partition{},
				errors.NewInsufficientSamplesError("modelselection.TrainTestSplit",
					class.label, len(class.indices), 2)
		}
		shuffled := append([]int(nil), class.indices...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		testIdx = append(testIdx, shuffled[:nTest]...)
		trainIdx = append(trainIdx, shuffled[nTest:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	train, err = ds.Subset(trainIdx)
	if err != nil {
		return dataset.Partition{}, dataset.Partition{}, err
	}
	test, err = ds.Subset(testIdx)
	if err != nil {
		return dataset.Partition{}, dataset.Partition{}, err
	}
	return train, test, nil
}

// StratifiedKFold assigns records to k folds so that each fold carries
// floor(n_c/k) or ceil(n_c/k) members of every class c.
type StratifiedKFold struct {
	K    int
	Seed uint64
}

// NewStratifiedKFold returns a splitter for k folds seeded deterministically.
func NewStratifiedKFold(k int, seed uint64) StratifiedKFold {
	return StratifiedKFold{K: k, Seed: seed}
}

// Assign builds the fold assignment for a dataset. It fails with
// InsufficientSamplesError when any class has fewer records than folds.
func (s StratifiedKFold) Assign(ds *dataset.Dataset) (*FoldAssignment, error) {
	if ds == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if s.K < 2 {
		return nil, errors.NewValueError("modelselection.StratifiedKFold", "fold count must be at least 2")
	}

	rng := newRNG(s.Seed)
	folds := make([][]int, s.K)
	for _, class := range classIndices(ds) {
		if len(class.indices) < s.K {
			return nil, errors.NewInsufficientSamplesError("modelselection.StratifiedKFold",
				class.label, len(class.indices), s.K)
		}
		shuffled := append([]int(nil), class.indices...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		// クラス内でシャッフルした後、ラウンドロビンで各フォールドに配る
		for i, idx := range shuffled {
			folds[i%s.K] = append(folds[i%s.K], idx)
		}
	}
	for i := range folds {
		sort.Ints(folds[i])
	}
	return &FoldAssignment{ds: ds, folds: folds}, nil
}

// FoldAssignment is an immutable record-index to fold-ID mapping produced by
// StratifiedKFold.Assign.
type FoldAssignment struct {
	ds    *dataset.Dataset
	folds [][]int
}

// NumFolds returns k.
func (f *FoldAssignment) NumFolds() int { return len(f.folds) }

// Val returns the validation partition of fold i.
func (f *FoldAssignment) Val(i int) (dataset.Partition, error) {
	if i < 0 || i >= len(f.folds) {
		return dataset.Partition{}, errors.NewValidationError("fold", "fold index out of range", i)
	}
	return f.ds.Subset(f.folds[i])
}

// Train returns the training partition of fold i: the union of every other
// fold, in original record order.
func (f *FoldAssignment) Train(i int) (dataset.Partition, error) {
	if i < 0 || i >= len(f.folds) {
		return dataset.Partition{}, errors.NewValidationError("fold", "fold index out of range", i)
	}
	var indices []int
	for j, fold := range f.folds {
		if j == i {
			continue
		}
		indices = append(indices, fold...)
	}
	sort.Ints(indices)
	return f.ds.Subset(indices)
}

// classView pairs a class label with its record indices.
type classView struct {
	label   float64
	indices []int
}

// classIndices splits a dataset's record indices by class, minority first.
func classIndices(ds *dataset.Dataset) []classView {
	positive := classView{label: ds.Schema().PositiveLabel}
	var negative classView
	for i := 0; i < ds.Len(); i++ {
		if ds.IsPositive(i) {
			positive.indices = append(positive.indices, i)
		} else {
			negative.label = ds.Label(i)
			negative.indices = append(negative.indices, i)
		}
	}
	return []classView{positive, negative}
}

// newRNG is the seeded PCG source used by the splitters.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
