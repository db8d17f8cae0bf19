package polynomial

import (
	"math"
	"strconv"
	"testing"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
)

const tol = 1e-9

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}

func TestFitScenarios(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		t    []float64
		m    int
		want []float64
	}{
		{
			name: "exact linear fit",
			x:    []float64{0, 1, 2},
			t:    []float64{1, 3, 5},
			m:    1,
			want: []float64{1, 2},
		},
		{
			name: "quadratic recovered from noiseless samples",
			x:    []float64{-2, -1, 0, 1, 2, 3},
			t:    []float64{7, 3.5, 1, -0.5, -1, -0.5},
			m:    2,
			want: []float64{1, -2, 0.5},
		},
		{
			name: "single sample at zero, degree zero",
			x:    []float64{0},
			t:    []float64{5},
			m:    0,
			want: []float64{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.x, tt.t, tt.m)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			if len(got) != tt.m+1 {
				t.Fatalf("len(w) = %d, want %d", len(got), tt.m+1)
			}
			for j := range tt.want {
				if !almostEqual(got[j], tt.want[j], tol) {
					t.Errorf("w[%d] = %v, want %v", j, got[j], tt.want[j])
				}
			}
		})
	}
}

func TestFitInterpolatesWhenDegreeIsNMinusOne(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		t    []float64
	}{
		{"alternating targets", []float64{0, 1, 2, 3}, []float64{1, 0, 1, 0}},
		{"irregular spacing", []float64{-1, 0.5, 2, 3.5, 4}, []float64{2, -1, 0.25, 3, -2}},
		{"two points", []float64{10, 11}, []float64{-3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Fit(tt.x, tt.t, len(tt.x)-1)
			if err != nil {
				t.Fatalf("Fit() error = %v", err)
			}
			for i, xi := range tt.x {
				if r := Eval(w, xi) - tt.t[i]; math.Abs(r) > 1e-8 {
					t.Errorf("residual at x=%v is %v", xi, r)
				}
			}
		})
	}
}

func TestFitDegreeZeroIsMean(t *testing.T) {
	x := []float64{0.3, 1.7, 2.2, 5}
	ts := []float64{1, 2, 3, 4}

	w, err := Fit(x, ts, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(w[0], 2.5, 1e-12) {
		t.Errorf("w[0] = %v, want mean 2.5", w[0])
	}
}

func TestFitPermutationInvariance(t *testing.T) {
	x := []float64{0, 0.5, 1.1, 2, 3.3, 4}
	ts := []float64{0.1, 0.4, 0.9, 0.7, -0.2, -0.9}
	perm := []int{3, 0, 5, 1, 4, 2}

	px := make([]float64, len(x))
	pt := make([]float64, len(ts))
	for i, j := range perm {
		px[i], pt[i] = x[j], ts[j]
	}

	w1, err := Fit(x, ts, 2)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := Fit(px, pt, 2)
	if err != nil {
		t.Fatal(err)
	}
	for j := range w1 {
		if !almostEqual(w1[j], w2[j], tol) {
			t.Errorf("w[%d]: %v vs %v after permutation", j, w1[j], w2[j])
		}
	}
}

func TestGramMatrix(t *testing.T) {
	x := []float64{0, 1, 2, -1.5}
	m := 3
	a := GramMatrix(x, m)

	if r, c := a.Dims(); r != m+1 || c != m+1 {
		t.Fatalf("Dims() = %d×%d, want %d×%d", r, c, m+1, m+1)
	}
	for k := 0; k <= m; k++ {
		for i := 0; i <= m; i++ {
			if a.At(k, i) != a.At(i, k) {
				t.Errorf("A[%d][%d]=%v != A[%d][%d]=%v", k, i, a.At(k, i), i, k, a.At(i, k))
			}
			var want float64
			for _, xn := range x {
				want += math.Pow(xn, float64(i+k))
			}
			if !almostEqual(a.At(k, i), want, 1e-12) {
				t.Errorf("A[%d][%d] = %v, want %v", k, i, a.At(k, i), want)
			}
		}
	}
	// x^0 = 1 for x = 0 as well
	if a.At(0, 0) != float64(len(x)) {
		t.Errorf("A[0][0] = %v, want %d", a.At(0, 0), len(x))
	}
}

func TestMomentVector(t *testing.T) {
	b := MomentVector([]float64{0, 1, 2}, []float64{1, 3, 5}, 2)
	want := []float64{9, 13, 23} // Σt, Σt·x, Σt·x²
	for k, v := range want {
		if b.AtVec(k) != v {
			t.Errorf("b[%d] = %v, want %v", k, b.AtVec(k), v)
		}
	}
}

func TestFitSingular(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		t    []float64
		m    int
	}{
		{"more coefficients than samples", []float64{0, 1, 2}, []float64{1, 2, 3}, 3},
		{"degree equals sample count", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, make([]float64, 10), 10},
		{"all x equal", []float64{2, 2, 2, 2}, []float64{1, 2, 3, 4}, 1},
		{"duplicate x collapse rank", []float64{0, 0, 1, 1}, []float64{1, 2, 3, 4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Fit(tt.x, tt.t, tt.m)
			if err == nil {
				t.Fatalf("expected singular matrix error, got w=%v", w)
			}
			if !errors.Is(err, errors.ErrSingularMatrix) {
				t.Errorf("expected ErrSingularMatrix, got %v", err)
			}
			var modelErr *errors.ModelError
			if !errors.As(err, &modelErr) {
				t.Errorf("expected *ModelError, got %T", err)
			}
		})
	}
}

func TestFitGramOverflow(t *testing.T) {
	// x^2 のべき乗和が float64 の範囲を超える
	w, err := Fit([]float64{1e160, 2e160}, []float64{1, 2}, 1)
	if err == nil {
		t.Fatalf("expected overflow error, got w=%v", w)
	}
	var numErr *errors.NumericalInstabilityError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected *NumericalInstabilityError, got %v", err)
	}
	if numErr.Operation != "gram" {
		t.Errorf("operation = %q, want %q", numErr.Operation, "gram")
	}
	if errors.Is(err, errors.ErrSingularMatrix) {
		t.Error("overflow must not be reported as a singular matrix")
	}
}

func TestFitInvalidInput(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name  string
		x     []float64
		t     []float64
		m     int
		check func(t *testing.T, err error)
	}{
		{
			name: "length mismatch",
			x:    []float64{0, 1, 2},
			t:    []float64{1, 2},
			m:    1,
			check: func(t *testing.T, err error) {
				var dimErr *errors.DimensionError
				if !errors.As(err, &dimErr) {
					t.Fatalf("expected *DimensionError, got %v", err)
				}
				if dimErr.Expected != 3 || dimErr.Got != 2 {
					t.Errorf("unexpected dimensions: %+v", dimErr)
				}
			},
		},
		{
			name: "no samples",
			m:    0,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, errors.ErrEmptyData) {
					t.Errorf("expected ErrEmptyData, got %v", err)
				}
			},
		},
		{
			name: "negative degree",
			x:    []float64{0, 1},
			t:    []float64{0, 1},
			m:    -1,
			check: func(t *testing.T, err error) {
				var valErr *errors.ValidationError
				if !errors.As(err, &valErr) || valErr.ParamName != "degree" {
					t.Errorf("expected degree ValidationError, got %v", err)
				}
			},
		},
		{
			name: "NaN target",
			x:    []float64{0, 1, 2},
			t:    []float64{0, nan, 2},
			m:    1,
			check: func(t *testing.T, err error) {
				var valErr *errors.ValueError
				if !errors.As(err, &valErr) {
					t.Errorf("expected *ValueError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.x, tt.t, tt.m)
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
		})
	}
}

func TestFitterConditionWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(w error) {})

	x := []float64{0, 1, 2, 3, 4}
	ts := []float64{1, 2, 0, 2, 1}

	res, err := Fitter{}.Fit(x, ts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings at default threshold: %v", warnings)
	}
	if res.Condition < 1 {
		t.Errorf("condition number %v should be at least 1", res.Condition)
	}

	if _, err := (Fitter{ConditionWarning: 1.5}).Fit(x, ts, 2); err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	var ill *errors.IllConditionedWarning
	if !errors.As(warnings[0], &ill) {
		t.Fatalf("expected *IllConditionedWarning, got %T", warnings[0])
	}
	if ill.Degree != 2 || ill.Samples != 5 || ill.Threshold != 1.5 {
		t.Errorf("unexpected warning fields: %+v", ill)
	}
}

func BenchmarkFit(b *testing.B) {
	for _, n := range []int{10, 100, 10000} {
		x := make([]float64, n)
		ts := make([]float64, n)
		for i := range x {
			x[i] = float64(i) / float64(n)
			ts[i] = math.Sin(2 * math.Pi * x[i])
		}
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Fit(x, ts, 5); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
