package resample

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// defaultKNeighbors is the SMOTE neighbor count when none is configured.
const defaultKNeighbors = 5

// SMOTE synthesizes minority records by interpolating between each minority
// record and one of its k nearest minority neighbors (feature-space
// Euclidean distance) at a random fraction in [0, 1), until the minority
// count equals the majority count.
//
// Neighbor search is an exact brute-force scan over the minority block of
// the supplied partition only; no record outside the partition is ever read.
type SMOTE struct {
	// KNeighbors is the neighbor pool size per minority record. Zero selects
	// the conventional default of 5.
	KNeighbors int
}

// Name implements Strategy.
func (SMOTE) Name() string { return "smote" }

// Resample implements Strategy. It fails with InsufficientMinorityError when
// the minority count does not exceed the neighbor count.
func (s SMOTE) Resample(X *mat.Dense, y []float64, seed uint64) (*mat.Dense, []float64, error) {
	split, err := classSplit("resample.SMOTE", X, y)
	if err != nil {
		return nil, nil, err
	}

	k := s.KNeighbors
	if k <= 0 {
		k = defaultKNeighbors
	}
	if len(split.min) <= k {
		return nil, nil, errors.NewInsufficientMinorityError("resample.SMOTE", len(split.min), k)
	}

	neighbors := minorityNeighbors(X, split.min, k)

	need := len(split.maj) - len(split.min)
	_, cols := X.Dims()
	out := mat.NewDense(len(y)+need, cols, nil)
	outY := make([]float64, 0, len(y)+need)
	for i := range y {
		out.SetRow(i, X.RawRowView(i))
		outY = append(outY, y[i])
	}

	rng := newRNG(seed)
	synth := make([]float64, cols)
	for i := 0; i < need; i++ {
		// 古典的SMOTEに倣い、合成の種は少数クラスを巡回させる
		seedIdx := i % len(split.min)
		base := X.RawRowView(split.min[seedIdx])
		pick := neighbors[seedIdx][rng.IntN(k)]
		neighbor := X.RawRowView(split.min[pick])

		gap := rng.Float64() // [0, 1): 内挿のみで外挿はしない
		for j := 0; j < cols; j++ {
			synth[j] = base[j] + gap*(neighbor[j]-base[j])
		}
		out.SetRow(len(y)+i, synth)
		outY = append(outY, split.minLabel)
	}
	return out, outY, nil
}

// minorityNeighbors returns, for each minority record, the positions (within
// the minority index slice) of its k nearest minority neighbors.
func minorityNeighbors(X *mat.Dense, min []int, k int) [][]int {
	type distPos struct {
		dist float64
		pos  int
	}

	result := make([][]int, len(min))
	for i, idxI := range min {
		rowI := X.RawRowView(idxI)
		dists := make([]distPos, 0, len(min)-1)
		for j, idxJ := range min {
			if i == j {
				continue
			}
			dists = append(dists, distPos{
				dist: floats.Distance(rowI, X.RawRowView(idxJ), 2),
				pos:  j,
			})
		}
		sort.Slice(dists, func(a, b int) bool {
			if dists[a].dist != dists[b].dist {
				return dists[a].dist < dists[b].dist
			}
			return dists[a].pos < dists[b].pos
		})
		nearest := make([]int, k)
		for n := 0; n < k; n++ {
			nearest[n] = dists[n].pos
		}
		result[i] = nearest
	}
	return result
}
