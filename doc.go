// Package polyfit fits polynomials to one-dimensional samples by linear
// least squares, solving the normal equations with gonum.
//
// polyfit is organised like a small machine learning library: a pure fitting
// routine, an estimator wrapper with Fit/Predict/Score, structured errors and
// structured logging.
//
// # Packages
//
//   - polynomial: Fit, GramMatrix, MomentVector, Horner evaluation and the
//     Regression estimator
//   - metrics: MSE, RMSE, MAE, MaxError and R² over gonum vectors
//   - core/model: estimator state, gob persistence and JSON weight export
//   - core/parallel: chunked fan-out used for batch prediction
//   - dataset: evenly spaced grids, sine targets and seeded Gaussian noise
//   - render: gonum/plot figures of samples, truth and fitted curves
//   - pkg/errors, pkg/log: error taxonomy, warnings and logging setup
//
// # Quick Start
//
//	w, err := polynomial.Fit([]float64{0, 1, 2}, []float64{1, 3, 5}, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(polynomial.Polynomial(w)) // 1 + 2·x
//
// The estimator form works on N×1 gonum matrices:
//
//	reg := polynomial.NewRegression(polynomial.WithDegree(3))
//	if err := reg.Fit(X, y); err != nil {
//	    if errors.Is(err, errors.ErrSingularMatrix) {
//	        // too few distinct x values for this degree
//	    }
//	}
//	pred, _ := reg.Predict(Xtest)
//
// # Error Handling
//
// Shape problems are reported as *errors.DimensionError, invalid parameters as
// *errors.ValidationError, and a rank-deficient system as an *errors.ModelError
// wrapping errors.ErrSingularMatrix. A solvable but ill-conditioned system is
// returned normally and reported through errors.Warn as an
// *errors.IllConditionedWarning.
//
// # Demo
//
// cmd/polyfit samples sin(x) on [0, 2π] with Gaussian noise, fits several
// degrees and writes a figure:
//
//	go run ./cmd/polyfit -degrees 1,4,9 -seed 1 -out polyfit.png
package polyfit
