// Package metrics は多項式フィットの評価指標を提供する。
// 全ての関数は同じ長さの *mat.VecDense を受け取り、空の入力や長さの不一致をエラーとして返す。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

// Residuals は残差 yTrue - yPred を返す
func Residuals(yTrue, yPred *mat.VecDense) ([]float64, error) {
	if err := checkPair("Residuals", yTrue, yPred); err != nil {
		return nil, err
	}
	res := make([]float64, yTrue.Len())
	floats.SubTo(res, rawOf(yTrue), rawOf(yPred))
	return res, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := Residuals(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "MSE")
	}
	// MSE = (1/n) * Σ(yTrue - yPred)²
	return floats.Dot(res, res) / float64(len(res)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := Residuals(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "MAE")
	}
	// MAE = (1/n) * Σ|yTrue - yPred|
	return floats.Norm(res, 1) / float64(len(res)), nil
}

// MaxError は残差の絶対値の最大値を計算する
// 補間（m = N-1）が各サンプルを通るかどうかの確認に使う
func MaxError(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := Residuals(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "MaxError")
	}
	return floats.Norm(res, math.Inf(1)), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	res, err := Residuals(yTrue, yPred)
	if err != nil {
		return 0, errors.Wrap(err, "R2Score")
	}

	y := rawOf(yTrue)
	yMean := stat.Mean(y, nil)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss float64
	for _, v := range y {
		tss += (v - yMean) * (v - yMean)
	}
	rss := floats.Dot(res, res)

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("R2Score", "no variance in yTrue", 0))
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

func checkPair(op string, yTrue, yPred *mat.VecDense) error {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() {
		return errors.NewValueError(op, "empty vector")
	}
	if yPred.IsEmpty() || yPred.Len() != yTrue.Len() {
		got := 0
		if !yPred.IsEmpty() {
			got = yPred.Len()
		}
		return errors.NewDimensionError(op, yTrue.Len(), got, 0)
	}
	return nil
}

// rawOf はベクトルの値を連続したスライスとして返す（stride != 1 の場合はコピーする）
func rawOf(v *mat.VecDense) []float64 {
	raw := v.RawVector()
	if raw.Inc == 1 {
		return raw.Data[:v.Len()]
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
