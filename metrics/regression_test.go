package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := vec(1.0, 2.0, 3.0, 4.0)
	yPred := vec(1.5, 2.5, 2.5, 3.5)

	tests := []struct {
		name string
		fn   func(a, b *mat.VecDense) (float64, error)
		want float64
	}{
		{"MSE", MSE, 0.25},  // ((0.5)^2 * 4) / 4
		{"RMSE", RMSE, 0.5}, // sqrt(0.25)
		{"MAE", MAE, 0.5},
		{"MaxError", MaxError, 0.5},
		{"R2Score", R2Score, 0.8}, // 1 - 1.0/5.0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(yTrue, yPred)
			if err != nil {
				t.Fatalf("%s() error = %v", tt.name, err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("%s() = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPerfectPrediction(t *testing.T) {
	y := vec(0.0, math.Sin(1), math.Sin(2), math.Sin(3))

	mse, err := MSE(y, y)
	if err != nil || mse != 0 {
		t.Errorf("MSE() = %v, %v; want 0, nil", mse, err)
	}
	r2, err := R2Score(y, y)
	if err != nil || math.Abs(r2-1) > 1e-12 {
		t.Errorf("R2Score() = %v, %v; want 1, nil", r2, err)
	}
}

func TestResiduals(t *testing.T) {
	res, err := Residuals(vec(1, 3, 5), vec(1, 2, 7))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, -2}
	for i := range want {
		if res[i] != want[i] {
			t.Errorf("res[%d] = %v, want %v", i, res[i], want[i])
		}
	}
}

func TestResidualsStridedVector(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	col := m.ColView(0).(*mat.VecDense)

	got, err := MaxError(col, vec(1, 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("MaxError() = %v, want 1", got)
	}
}

func TestMetricErrors(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		wantDim bool
	}{
		{name: "dimension mismatch", yTrue: vec(1, 2, 3), yPred: vec(1, 2), wantDim: true},
		{name: "empty vectors", yTrue: &mat.VecDense{}, yPred: &mat.VecDense{}},
		{name: "nil prediction", yTrue: vec(1), yPred: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, fn := range map[string]func(a, b *mat.VecDense) (float64, error){
				"MSE": MSE, "RMSE": RMSE, "MAE": MAE, "MaxError": MaxError, "R2Score": R2Score,
			} {
				_, err := fn(tt.yTrue, tt.yPred)
				if err == nil {
					t.Errorf("%s: expected an error", name)
					continue
				}
				var dimErr *errors.DimensionError
				if tt.wantDim && !errors.As(err, &dimErr) {
					t.Errorf("%s: expected *DimensionError, got %v", name, err)
				}
			}
		})
	}
}

func TestR2ScoreConstantTarget(t *testing.T) {
	var warned error
	errors.SetWarningHandler(func(w error) { warned = w })
	defer errors.SetWarningHandler(func(w error) {})

	if _, err := R2Score(vec(2, 2, 2), vec(1, 2, 3)); err == nil {
		t.Fatal("expected an error for zero variance")
	}
	var undefined *errors.UndefinedMetricWarning
	if !errors.As(warned, &undefined) {
		t.Errorf("expected UndefinedMetricWarning, got %v", warned)
	}
}

func BenchmarkMSE(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, math.Sin(float64(i)))
		yPred.SetVec(i, math.Sin(float64(i))+0.01)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
