// Package metrics は不均衡二値分類の評価指標を提供します。
// 中心はprecision-recall曲線の構築とPR-AUCの台形積分で、
// 混同行列・ROC-AUC・loglossなどの補助指標も併せて提供します。
// 少数クラス（陽性クラス）はラベル1で表現されます。
package metrics

import (
	"sort"

	"github.com/YuminosukeSato/imbalearn/pkg/errors"
)

// PRPoint はPR曲線上の一点（しきい値・適合率・再現率）です。
type PRPoint struct {
	Threshold float64
	Precision float64
	Recall    float64
}

// PRCurve はしきい値降順（再現率昇順）に並んだPR曲線です。
type PRCurve []PRPoint

// PrecisionRecallCurve はスコア付き予測からPR曲線を構築します。
//
// スコアを降順に走査し、各distinctスコア値をしきい値として
// precision = TP/(TP+FP)、recall = TP/(TP+FN) を計算します。
// 同一スコアのタイは単一のしきい値ステップにまとめられます
// （タイのレコードはすべて同じ分類を受けます）。
//
// 陽性サンプルが一つもない場合は再現率が定義できないため
// EmptyCurveErrorを返します。
func PrecisionRecallCurve(yTrue, scores []float64) (PRCurve, error) {
	n := len(yTrue)
	if n == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(scores) != n {
		return nil, errors.NewDimensionError("PrecisionRecallCurve", n, len(scores), 0)
	}
	if err := errors.CheckNumericalStability("PrecisionRecallCurve", scores, 0); err != nil {
		return nil, err
	}

	positives := 0
	for _, label := range yTrue {
		if label != 0 && label != 1 {
			return nil, errors.NewValueError("PrecisionRecallCurve", "labels must be binary (0 or 1)")
		}
		if label == 1 {
			positives++
		}
	}
	if positives == 0 {
		return nil, errors.NewEmptyCurveError("PrecisionRecallCurve", "no positive samples in yTrue")
	}

	// スコア降順にインデックスをソート（タイ内の順序は結果に影響しない）
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	curve := make(PRCurve, 0, n)
	tp, fp := 0, 0
	for i := 0; i < n; {
		threshold := scores[order[i]]
		// タイをまとめて一ステップとして処理する
		for i < n && scores[order[i]] == threshold {
			if yTrue[order[i]] == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		curve = append(curve, PRPoint{
			Threshold: threshold,
			Precision: float64(tp) / float64(tp+fp),
			Recall:    float64(tp) / float64(positives),
		})
	}
	return curve, nil
}

// AUC は再現率[0,1]区間でのprecisionの台形積分を返します。
//
// 境界規約: 掃引の最上位しきい値より上（陽性予測がゼロの領域）は
// (recall=0, precision=1) のアンカー点で固定します（scikit-learnの
// precision_recall_curveと同じ規約）。この規約の下では全スコア同一の
// 退化した分類器のPR-AUCは (prior+1)/2 になります。事前確率そのものを
// 期待する場合はAveragePrecisionを使用してください。
func (c PRCurve) AUC() float64 {
	prevRecall, prevPrecision := 0.0, 1.0
	area := 0.0
	for _, p := range c {
		area += (p.Recall - prevRecall) * (p.Precision + prevPrecision) / 2
		prevRecall, prevPrecision = p.Recall, p.Precision
	}
	return area
}

// AveragePrecision はステップ積分 Σ (R_i - R_{i-1})・P_i を返します。
// 全スコア同一の分類器では陽性クラスの事前確率に一致します。
func (c PRCurve) AveragePrecision() float64 {
	prevRecall := 0.0
	ap := 0.0
	for _, p := range c {
		ap += (p.Recall - prevRecall) * p.Precision
		prevRecall = p.Recall
	}
	return ap
}

// PRAUC は曲線構築と台形積分をまとめた便宜関数です。
func PRAUC(yTrue, scores []float64) (float64, error) {
	curve, err := PrecisionRecallCurve(yTrue, scores)
	if err != nil {
		return 0, err
	}
	return curve.AUC(), nil
}
