// Package log defines standard attribute keys for fitting operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that records can be filtered and aggregated.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "PolynomialRegression".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey is the number of (x, t) samples.
	SamplesKey = "data.samples"

	// GridPointsKey is the number of evaluation points of a plotted curve.
	GridPointsKey = "data.grid_points"
)

// Fit diagnostics
const (
	// DegreeKey is the polynomial degree m.
	DegreeKey = "model.degree"

	// CoefficientsKey holds the fitted coefficient vector, constant term first.
	CoefficientsKey = "model.coefficients"

	// ConditionKey records the condition number of the Gram matrix.
	ConditionKey = "fit.condition_number"

	// NoiseKey records the standard deviation of the sample noise.
	NoiseKey = "data.noise_sigma"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RMSEKey records the root mean squared error of a fit on its samples.
	RMSEKey = "metrics.rmse"

	// MaxErrorKey records the largest absolute deviation from a reference curve.
	MaxErrorKey = "metrics.max_error"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Configuration
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// OutputKey records where an artefact (figure, model file) was written.
	OutputKey = "config.output"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationRender  = "render"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
