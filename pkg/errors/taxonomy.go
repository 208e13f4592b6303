// このファイルは不均衡データ評価に固有のエラー分類を提供します。
// 設定エラー（ConflictingStrategyErrorなど）は学習開始前に致命的エラーとして
// 表面化し、フォールド単位の学習失敗（TrainerError）は局所的に回復されます。

package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// InsufficientSamplesError は層化分割・層化k-fold分割に必要なサンプル数が
// 不足している場合のエラーです。
type InsufficientSamplesError struct {
	Op       string
	Label    float64 // 不足しているクラスのラベル値
	Count    int     // 実際のサンプル数
	Required int     // 必要なサンプル数
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("imbalearn: %s: class %g has %d samples, need at least %d to stratify",
		e.Op, e.Label, e.Count, e.Required)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientSamplesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Float64("label", e.Label).
		Int("count", e.Count).
		Int("required", e.Required).
		Str("type", "InsufficientSamplesError")
}

// NewInsufficientSamplesError は新しいInsufficientSamplesErrorを作成し、スタックトレースを付与します。
func NewInsufficientSamplesError(op string, label float64, count, required int) error {
	err := &InsufficientSamplesError{Op: op, Label: label, Count: count, Required: required}
	return errors.WithStack(err)
}

// InsufficientMinorityError はSMOTEの近傍数が少数クラスのサンプル数以上の場合のエラーです。
// 近傍補間に必要な少数クラスサンプルが確保できないことを示します。
type InsufficientMinorityError struct {
	Op            string
	MinorityCount int
	KNeighbors    int
}

func (e *InsufficientMinorityError) Error() string {
	return fmt.Sprintf("imbalearn: %s: minority class has %d samples but %d neighbors were requested; need minority count > k_neighbors",
		e.Op, e.MinorityCount, e.KNeighbors)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientMinorityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("minority_count", e.MinorityCount).
		Int("k_neighbors", e.KNeighbors).
		Str("type", "InsufficientMinorityError")
}

// NewInsufficientMinorityError は新しいInsufficientMinorityErrorを作成し、スタックトレースを付与します。
func NewInsufficientMinorityError(op string, minorityCount, kNeighbors int) error {
	err := &InsufficientMinorityError{Op: op, MinorityCount: minorityCount, KNeighbors: kNeighbors}
	return errors.WithStack(err)
}

// ConflictingStrategyError はリサンプリングとクラス重み付けが同時に要求された場合のエラーです。
// 両者は単一の学習実行内で相互排他です。
type ConflictingStrategyError struct {
	Strategy string // 同時に要求されたリサンプリング戦略名
}

func (e *ConflictingStrategyError) Error() string {
	return fmt.Sprintf("imbalearn: resampling strategy %q and class weighting are mutually exclusive within a single run",
		e.Strategy)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConflictingStrategyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("strategy", e.Strategy).
		Str("type", "ConflictingStrategyError")
}

// NewConflictingStrategyError は新しいConflictingStrategyErrorを作成し、スタックトレースを付与します。
func NewConflictingStrategyError(strategy string) error {
	err := &ConflictingStrategyError{Strategy: strategy}
	return errors.WithStack(err)
}

// NoViableModelError はグリッドの全ハイパーパラメータ組について全フォールドの
// 学習が失敗した場合のエラーです。
type NoViableModelError struct {
	Tuples   int // 評価対象だった組の数
	Failures int // 記録されたフォールド失敗の総数
}

func (e *NoViableModelError) Error() string {
	return fmt.Sprintf("imbalearn: grid search produced no viable model: all %d parameter tuples failed (%d fold failures)",
		e.Tuples, e.Failures)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NoViableModelError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("tuples", e.Tuples).
		Int("failures", e.Failures).
		Str("type", "NoViableModelError")
}

// NewNoViableModelError は新しいNoViableModelErrorを作成し、スタックトレースを付与します。
func NewNoViableModelError(tuples, failures int) error {
	err := &NoViableModelError{Tuples: tuples, Failures: failures}
	return errors.WithStack(err)
}

// EmptyCurveError はPR曲線が一点も持たない場合のエラーです。
// 例えば、単一クラスのみのデータセットでは曲線を構成できません。
type EmptyCurveError struct {
	Op     string
	Reason string
}

func (e *EmptyCurveError) Error() string {
	return fmt.Sprintf("imbalearn: %s: precision-recall curve has no points: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EmptyCurveError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "EmptyCurveError")
}

// NewEmptyCurveError は新しいEmptyCurveErrorを作成し、スタックトレースを付与します。
func NewEmptyCurveError(op, reason string) error {
	err := &EmptyCurveError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// TrainerError は外部トレーナーから表面化した不透明な失敗を、失敗した
// フォールド・ハイパーパラメータ組の診断情報とともに保持します。
type TrainerError struct {
	Params string // 失敗した組の表現（Hyperparams.String()）
	Repeat int
	Fold   int
	Err    error
}

func (e *TrainerError) Error() string {
	return fmt.Sprintf("imbalearn: trainer failed for params %s (repeat %d, fold %d): %v",
		e.Params, e.Repeat, e.Fold, e.Err)
}

func (e *TrainerError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *TrainerError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("params", e.Params).
		Int("repeat", e.Repeat).
		Int("fold", e.Fold).
		AnErr("cause", e.Err).
		Str("type", "TrainerError")
}

// NewTrainerError は新しいTrainerErrorを作成し、スタックトレースを付与します。
func NewTrainerError(params string, repeat, fold int, err error) error {
	trainerErr := &TrainerError{Params: params, Repeat: repeat, Fold: fold, Err: err}
	return errors.WithStack(trainerErr)
}
