package metrics

import (
	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// BestF1Cutoff は曲線上の各点でF1を計算し、最大となるしきい値を返します。
// F1が同値の場合はより高いしきい値（より保守的で偽陽性の少ない方）を
// 優先します。空の曲線にはEmptyCurveErrorを返します。
func (c PRCurve) BestF1Cutoff() (float64, error) {
	if len(c) == 0 {
		return 0, errors.NewEmptyCurveError("BestF1Cutoff", "curve has no points")
	}

	// 曲線はしきい値降順なので、strict greaterで更新すれば
	// 同値タイは自動的に高いしきい値側に倒れる
	best := c[0]
	bestF1 := pointF1(c[0])
	for _, p := range c[1:] {
		if f1 := pointF1(p); f1 > bestF1 {
			best, bestF1 = p, f1
		}
	}
	return best.Threshold, nil
}

// OperatingPoint はカットオフ以上のしきい値を持つ曲線上の最近接点を返します。
// 報告用途の補助で、カットオフがどの(P, R)に対応するかを引きます。
func (c PRCurve) OperatingPoint(cutoff float64) (PRPoint, error) {
	if len(c) == 0 {
		return PRPoint{}, errors.NewEmptyCurveError("OperatingPoint", "curve has no points")
	}
	// しきい値降順: カットオフ以上の最後の点が最近接
	result := c[0]
	found := false
	for _, p := range c {
		if p.Threshold >= cutoff {
			result = p
			found = true
		}
	}
	if !found {
		// 全しきい値がカットオフ未満なら最上位の点を返す
		result = c[0]
	}
	return result, nil
}

func pointF1(p PRPoint) float64 {
	if p.Precision+p.Recall == 0 {
		return 0
	}
	return 2 * p.Precision * p.Recall / (p.Precision + p.Recall)
}
