package polynomial_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/polyfit/pkg/errors"
	"github.com/YuminosukeSato/polyfit/polynomial"
)

func ExampleFit() {
	w, err := polynomial.Fit([]float64{0, 1, 2}, []float64{1, 3, 5}, 1)
	if err != nil {
		panic(err)
	}
	fmt.Printf("w = [%.3f %.3f]\n", w[0], w[1])
	fmt.Printf("p(10) = %.3f\n", polynomial.Eval(w, 10))
	// Output:
	// w = [1.000 2.000]
	// p(10) = 21.000
}

func ExampleFit_singular() {
	_, err := polynomial.Fit([]float64{0, 1, 2}, []float64{1, 2, 3}, 3)
	fmt.Println(errors.Is(err, errors.ErrSingularMatrix))
	// Output:
	// true
}

func ExamplePolynomial_String() {
	fmt.Println(polynomial.Polynomial{1, -2, 0.5})
	// Output:
	// 1 - 2·x + 0.5·x^2
}

func ExampleRegression() {
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewDense(3, 1, []float64{1, 3, 5})

	reg := polynomial.NewRegression(polynomial.WithDegree(1))
	if err := reg.Fit(X, y); err != nil {
		panic(err)
	}
	pred, _ := reg.Predict(mat.NewDense(1, 1, []float64{10}))
	fmt.Printf("%.3f\n", pred.At(0, 0))
	// Output:
	// 21.000
}
