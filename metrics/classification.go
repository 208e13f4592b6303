package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// ROCAUC はROC曲線下面積を順位統計（Mann-Whitney U）として計算します。
// タイのスコアには中央順位を割り当てます。
// 片方のクラスしか存在しない場合は未定義のため、
// UndefinedMetricWarningを発して0.5を返します。
func ROCAUC(yTrue, scores []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	if len(scores) != n {
		return 0, errors.NewDimensionError("ROCAUC", n, len(scores), 0)
	}
	if err := errors.CheckNumericalStability("ROCAUC", scores, 0); err != nil {
		return 0, err
	}

	positives, negatives := 0, 0
	for _, label := range yTrue {
		switch label {
		case 1:
			positives++
		case 0:
			negatives++
		default:
			return 0, errors.NewValueError("ROCAUC", "labels must be binary (0 or 1)")
		}
	}
	if positives == 0 || negatives == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("roc_auc", "only one class present", 0.5))
		return 0.5, nil
	}

	// スコア昇順に順位付けし、タイには中央順位を与える
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[order[j]] == scores[order[i]] {
			j++
		}
		// 順位は1始まり。[i, j) は同スコアグループ
		midRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = midRank
		}
		i = j
	}

	rankSum := 0.0
	for i := 0; i < n; i++ {
		if yTrue[i] == 1 {
			rankSum += ranks[i]
		}
	}
	nPos, nNeg := float64(positives), float64(negatives)
	u := rankSum - nPos*(nPos+1)/2
	return u / (nPos * nNeg), nil
}

// BinaryLogLoss は二値クロスエントロピーを計算します。
// 予測確率は log(0) を避けるため [eps, 1-eps] にクリップされます。
func BinaryLogLoss(yTrue, scores []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	if len(scores) != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, len(scores), 0)
	}

	const eps = 1e-15
	loss := 0.0
	for i := 0; i < n; i++ {
		if yTrue[i] != 0 && yTrue[i] != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be binary (0 or 1)")
		}
		p := errors.ClipValue(scores[i], eps, 1-eps)
		if yTrue[i] == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}

// Accuracy はカットオフ0.5での正解率を返します。
func Accuracy(yTrue, scores []float64) (float64, error) {
	m, err := NewConfusionMatrix(yTrue, scores, 0.5)
	if err != nil {
		return 0, err
	}
	return m.Accuracy(), nil
}
