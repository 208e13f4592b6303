package metrics

import (
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// ConfusionMatrix は選択したしきい値における二値分類の混同行列です。
// score >= cutoff を陽性予測、ラベル1を陽性クラスとして集計します。
type ConfusionMatrix struct {
	TP int
	FP int
	TN int
	FN int
}

// NewConfusionMatrix はスコア付き予測とカットオフから混同行列を導出します。
func NewConfusionMatrix(yTrue, scores []float64, cutoff float64) (ConfusionMatrix, error) {
	n := len(yTrue)
	if n == 0 {
		return ConfusionMatrix{}, errors.WithStack(errors.ErrEmptyData)
	}
	if len(scores) != n {
		return ConfusionMatrix{}, errors.NewDimensionError("NewConfusionMatrix", n, len(scores), 0)
	}
	if err := errors.CheckNumericalStability("NewConfusionMatrix", scores, 0); err != nil {
		return ConfusionMatrix{}, err
	}

	var m ConfusionMatrix
	for i := 0; i < n; i++ {
		switch {
		case yTrue[i] != 0 && yTrue[i] != 1:
			return ConfusionMatrix{}, errors.NewValueError("NewConfusionMatrix", "labels must be binary (0 or 1)")
		case yTrue[i] == 1 && scores[i] >= cutoff:
			m.TP++
		case yTrue[i] == 1:
			m.FN++
		case scores[i] >= cutoff:
			m.FP++
		default:
			m.TN++
		}
	}
	return m, nil
}

// Precision は TP/(TP+FP) を返します。陽性予測がゼロの場合は
// UndefinedMetricWarningを発して0を返します（規約はテストで固定）。
func (m ConfusionMatrix) Precision() float64 {
	if m.TP+m.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FP)
}

// Recall は TP/(TP+FN) を返します。陽性サンプルがゼロの場合は
// UndefinedMetricWarningを発して0を返します。
func (m ConfusionMatrix) Recall() float64 {
	if m.TP+m.FN == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no positive samples", 0))
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FN)
}

// F1 は適合率と再現率の調和平均を返します。両者が0の場合は0です。
func (m ConfusionMatrix) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Accuracy は (TP+TN)/total を返します。
// 不均衡データでは誤解を招く指標であり、報告用途に限定されます。
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.TP + m.FP + m.TN + m.FN
	if total == 0 {
		return 0
	}
	return float64(m.TP+m.TN) / float64(total)
}

// Total は集計されたレコード数を返します。
func (m ConfusionMatrix) Total() int {
	return m.TP + m.FP + m.TN + m.FN
}
