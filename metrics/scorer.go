package metrics

// Scorer は検証フォールドのスコア付き予測を単一の評価値に写像します。
// グリッドサーチは値が大きいほど良いものとして最大化します。
type Scorer func(yTrue, scores []float64) (float64, error)

// PRAUCScorer はPR-AUC（台形積分）で採点します。不均衡データの既定スコアラです。
func PRAUCScorer(yTrue, scores []float64) (float64, error) {
	return PRAUC(yTrue, scores)
}

// ROCAUCScorer はROC-AUCで採点します。
func ROCAUCScorer(yTrue, scores []float64) (float64, error) {
	return ROCAUC(yTrue, scores)
}

// NegLogLossScorer は -logloss で採点します（最大化と整合させるため符号反転）。
func NegLogLossScorer(yTrue, scores []float64) (float64, error) {
	loss, err := BinaryLogLoss(yTrue, scores)
	if err != nil {
		return 0, err
	}
	return -loss, nil
}
