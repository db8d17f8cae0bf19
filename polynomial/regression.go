package polynomial

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/polyfit/core/model"
	"github.com/YuminosukeSato/polyfit/core/parallel"
	"github.com/YuminosukeSato/polyfit/metrics"
	"github.com/YuminosukeSato/polyfit/pkg/errors"
	"github.com/YuminosukeSato/polyfit/pkg/log"
)

const modelName = "PolynomialRegression"

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const predictParallelThreshold = 1000

// Regression は1変数の多項式回帰モデル
// 入力Xは N×1 の行列、目的変数yは N×1 の列ベクトル
type Regression struct {
	model.BaseEstimator
	Weights       []float64 // 係数 w[0] ... w[m]（定数項が先頭）
	PolyDegree    int       // 次数 m
	GramCondition float64   // 学習時のGram行列の条件数

	conditionWarning float64
	logger           log.Logger
}

var (
	_ model.Regressor       = (*Regression)(nil)
	_ model.ParameterGetter = (*Regression)(nil)
	_ model.WeightExporter  = (*Regression)(nil)
)

// NewRegression は新しい多項式回帰モデルを作成する
func NewRegression(opts ...Option) *Regression {
	r := &Regression{
		PolyDegree:       1,
		conditionWarning: DefaultConditionWarning,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Regression) contextLogger() log.Logger {
	if r.logger == nil {
		return log.NopLogger()
	}
	return r.logger.With(log.ModelNameKey, modelName)
}

// Fit は正規方程式を解いてモデルを学習させる
func (r *Regression) Fit(X, y mat.Matrix) (err error) {
	const op = "PolynomialRegression.Fit"
	defer errors.Recover(&err, op)

	x, t, err := columns(op, X, y)
	if err != nil {
		return err
	}

	logger := r.contextLogger().With(
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DegreeKey, r.PolyDegree,
	)
	logger.Debug("fit started", log.SamplesKey, len(x))
	start := time.Now()

	res, err := Fitter{ConditionWarning: r.conditionWarning}.Fit(x, t, r.PolyDegree)
	if err != nil {
		fields := []any{log.ErrAttrKey, err, log.ErrorCodeKey, errorCode(err), log.SamplesKey, len(x)}
		if errors.Is(err, errors.ErrSingularMatrix) {
			fields = append(fields, log.SuggestionKey, "reduce the degree or add samples with distinct x")
		}
		logger.Error("fit failed", fields...)
		return err
	}

	r.Weights = res.Coefficients
	r.GramCondition = res.Condition
	r.SetFitted()

	logger.Info("fit completed",
		log.SamplesKey, len(x),
		log.CoefficientsKey, []float64(res.Coefficients),
		log.ConditionKey, res.Condition,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は入力データに対する予測を行う
func (r *Regression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError(modelName, "Predict")
	}

	rows, c := X.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("PolynomialRegression.Predict", 1, c, 1)
	}

	p := Polynomial(r.Weights)
	predictions := mat.NewDense(rows, 1, nil)
	parallel.ParallelizeWithThreshold(rows, predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			predictions.Set(i, 0, p.At(X.At(i, 0)))
		}
	})

	r.contextLogger().Debug("predict completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, rows,
	)
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (r *Regression) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError(modelName, "Score")
	}

	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	ry, cy := y.Dims()
	if cy != 1 {
		return 0, errors.NewValueError("PolynomialRegression.Score", "y must be a column vector")
	}
	yTrue := mat.NewVecDense(ry, nil)
	for i := 0; i < ry; i++ {
		yTrue.SetVec(i, y.At(i, 0))
	}
	rp, _ := yPred.Dims()
	yPredVec := mat.NewVecDense(rp, nil)
	for i := 0; i < rp; i++ {
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	score, err := metrics.R2Score(yTrue, yPredVec)
	if err != nil {
		return 0, err
	}
	r.contextLogger().Debug("score computed", log.OperationKey, log.OperationScore, log.R2ScoreKey, score)
	return score, nil
}

// Coefficients は学習された係数のコピーを返す（定数項が先頭）
func (r *Regression) Coefficients() Polynomial {
	if r.Weights == nil {
		return nil
	}
	w := make(Polynomial, len(r.Weights))
	copy(w, r.Weights)
	return w
}

// Degree はモデルの次数を返す
func (r *Regression) Degree() int {
	return r.PolyDegree
}

// Condition は学習時のGram行列の条件数を返す
func (r *Regression) Condition() float64 {
	return r.GramCondition
}

// GetParams はハイパーパラメータを返す
func (r *Regression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":            r.PolyDegree,
		"condition_warning": r.threshold(),
	}
}

// ExportWeights は学習済みの係数をModelWeightsとして書き出す
// Interceptが定数項、Coefficientsがx^1以降の係数になる
func (r *Regression) ExportWeights() (*model.ModelWeights, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError(modelName, "ExportWeights")
	}

	coefs := make([]float64, len(r.Weights)-1)
	copy(coefs, r.Weights[1:])
	return &model.ModelWeights{
		ModelType:       modelName,
		Version:         model.WeightsFormatVersion,
		Intercept:       r.Weights[0],
		Coefficients:    coefs,
		Hyperparameters: r.GetParams(),
		Metadata:        map[string]interface{}{"condition_number": r.GramCondition},
		IsFitted:        true,
	}, nil
}

// ImportWeights はModelWeightsから係数を読み込む
func (r *Regression) ImportWeights(weights *model.ModelWeights) error {
	if weights == nil {
		return errors.NewValueError("PolynomialRegression.ImportWeights", "nil weights")
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	if weights.ModelType != modelName {
		return errors.NewValidationError("model_type", "expected "+modelName, weights.ModelType)
	}
	if !weights.IsFitted {
		r.Weights = nil
		r.Reset()
		return nil
	}

	r.Weights = append([]float64{weights.Intercept}, weights.Coefficients...)
	r.PolyDegree = len(weights.Coefficients)
	if c, ok := weights.Metadata["condition_number"].(float64); ok {
		r.GramCondition = c
	}
	r.SetFitted()
	return nil
}

func (r *Regression) threshold() float64 {
	if r.conditionWarning <= 0 {
		return DefaultConditionWarning
	}
	return r.conditionWarning
}

// errorCode はログ用のエラーコードを返す
func errorCode(err error) string {
	var (
		dimErr *errors.DimensionError
		numErr *errors.NumericalInstabilityError
	)
	switch {
	case errors.Is(err, errors.ErrSingularMatrix):
		return log.ErrorSingularMatrix
	case errors.Is(err, errors.ErrEmptyData):
		return log.ErrorEmptyData
	case errors.As(err, &dimErr):
		return log.ErrorDimensionMismatch
	case errors.As(err, &numErr):
		return log.ErrorNumerical
	default:
		return log.ErrorInvalidInput
	}
}

// columns は X (N×1) と y (N×1) をスライスに変換する
func columns(op string, X, y mat.Matrix) ([]float64, []float64, error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if c != 1 {
		return nil, nil, errors.NewDimensionError(op, 1, c, 1)
	}
	if ry != r {
		return nil, nil, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return nil, nil, errors.NewValueError(op, "y must be a column vector")
	}

	x := mat.Col(nil, 0, X)
	t := mat.Col(nil, 0, y)
	return x, t, nil
}
