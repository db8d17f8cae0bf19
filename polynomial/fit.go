package polynomial

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

// DefaultConditionWarning はIllConditionedWarningを出すGram行列の条件数の閾値
const DefaultConditionWarning = 1e12

// Result は最小二乗フィットの結果
type Result struct {
	Coefficients Polynomial // 係数（定数項が先頭）
	Condition    float64    // LU分解から推定したGram行列の条件数
}

// Fitter は正規方程式ソルバーの設定。ゼロ値のまま使える。
type Fitter struct {
	// ConditionWarning を超える条件数で警告を出す。
	// 0以下ならDefaultConditionWarning、+Infなら警告しない。
	ConditionWarning float64
}

// Fit はサンプル (x[i], t[i]) に対するm次の最小二乗多項式を求め、
// 定数項を先頭とする係数を返す。
func Fit(x, t []float64, m int) ([]float64, error) {
	res, err := Fitter{}.Fit(x, t, m)
	if err != nil {
		return nil, err
	}
	return res.Coefficients, nil
}

// Fit はm次の最小二乗多項式を求める。悪条件の場合も解を返し、警告を出す。
func (f Fitter) Fit(x, t []float64, m int) (res Result, err error) {
	const op = "polynomial.Fit"
	defer errors.Recover(&err, op)

	if err := validate(op, x, t, m); err != nil {
		return Result{}, err
	}
	if d := distinct(x); m+1 > d {
		return Result{}, errors.NewSingularMatrixError(op,
			fmt.Sprintf("degree %d needs at least %d distinct x values, got %d", m, m+1, d))
	}

	a := GramMatrix(x, m)
	b := MomentVector(x, t, m)
	// 大きなxでべき乗和がオーバーフローすると、LUに入る前に検出する
	if err := errors.CheckMatrix("gram", a, m+1, m+1); err != nil {
		return Result{}, err
	}
	if err := errors.CheckNumericalStability("moment", b.RawVector().Data); err != nil {
		return Result{}, err
	}

	var lu mat.LU
	lu.Factorize(a)

	var w mat.VecDense
	if err := lu.SolveVecTo(&w, false, b); err != nil {
		var cond mat.Condition
		switch {
		case errors.Is(err, mat.ErrSingular):
			return Result{}, errors.NewSingularMatrixError(op, "Gram matrix is singular")
		case errors.As(err, &cond):
			// gonumは解を計算済み。下の警告で通知する
		default:
			return Result{}, errors.Wrap(err, op)
		}
	}
	if w.Len() != m+1 {
		return Result{}, errors.NewSingularMatrixError(op, "no solution computed")
	}

	res = Result{
		Coefficients: make(Polynomial, m+1),
		Condition:    lu.Cond(),
	}
	for j := range res.Coefficients {
		res.Coefficients[j] = w.AtVec(j)
	}
	if err := errors.CheckNumericalStability("solve", res.Coefficients); err != nil {
		return Result{}, err
	}

	threshold := f.ConditionWarning
	if threshold <= 0 {
		threshold = DefaultConditionWarning
	}
	if res.Condition > threshold {
		errors.Warn(errors.NewIllConditionedWarning(op, res.Condition, threshold, m, len(x)))
	}
	return res, nil
}

// GramMatrix は (m+1)×(m+1) 行列 A[k][i] = Σ_n x[n]^(i+k) を返す。
// 2m+1個のべき乗和から組み立てるので厳密に対称になる。
func GramMatrix(x []float64, m int) *mat.SymDense {
	sums := powerSums(x, 2*m)
	a := mat.NewSymDense(m+1, nil)
	for k := 0; k <= m; k++ {
		for i := k; i <= m; i++ {
			a.SetSym(k, i, sums[i+k])
		}
	}
	return a
}

// MomentVector は b[k] = Σ_n t[n]·x[n]^k (k = 0..m) を返す。
// xとtは同じ長さであること。
func MomentVector(x, t []float64, m int) *mat.VecDense {
	b := make([]float64, m+1)
	for n, xn := range x {
		p := 1.0
		for k := 0; k <= m; k++ {
			b[k] += t[n] * p
			p *= xn
		}
	}
	return mat.NewVecDense(m+1, b)
}

// powerSums は S[j] = Σ_n x[n]^j (j = 0..maxPow) を返す。
// 逐次乗算なので x = 0 でも x^0 = 1 になる。
func powerSums(x []float64, maxPow int) []float64 {
	sums := make([]float64, maxPow+1)
	for _, xn := range x {
		p := 1.0
		for j := 0; j <= maxPow; j++ {
			sums[j] += p
			p *= xn
		}
	}
	return sums
}

func validate(op string, x, t []float64, m int) error {
	if len(x) != len(t) {
		return errors.NewDimensionError(op, len(x), len(t), 0)
	}
	if len(x) == 0 {
		return errors.NewModelError(op, "no samples", errors.ErrEmptyData)
	}
	if m < 0 {
		return errors.NewValidationError("degree", "must be non-negative", m)
	}
	if err := errors.CheckFinite(op, "x", x); err != nil {
		return err
	}
	return errors.CheckFinite(op, "t", t)
}

// distinct はxの異なる値の個数を数える
func distinct(x []float64) int {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)

	n := 0
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			n++
		}
	}
	return n
}
