// Package log defines standard attribute keys for machine learning operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples", "tree.depth") so records can be filtered by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "PolyTree", "LeastSquares"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "tree.polytree", "poly"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records loss value during training or evaluation.
	LossKey = "metrics.loss"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey records the root mean squared error of a prediction.
	RMSEKey = "metrics.rmse"

	// MAEKey records the mean absolute error of a prediction.
	MAEKey = "metrics.mae"
)

// Tree construction context
const (
	// DepthKey records the depth of the node being processed (root = 0).
	DepthKey = "tree.depth"

	// NodeKey records the construction-order index of a node.
	NodeKey = "tree.node"

	// FeatureKey records the feature index of a split.
	FeatureKey = "tree.feature"

	// ThresholdKey records the threshold of a split.
	ThresholdKey = "tree.threshold"

	// LeavesKey records the number of leaves of a fitted tree.
	LeavesKey = "tree.leaves"

	// BasisKey records the polynomial index-set family.
	BasisKey = "poly.basis"

	// OrderKey records the polynomial order.
	OrderKey = "poly.order"

	// TermsKey records the number of basis terms of a polynomial.
	TermsKey = "poly.terms"

	// RankKey records the numerical rank of a least-squares design matrix.
	RankKey = "poly.rank"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Standard attribute value constants for common operations.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorFitFailure        = "FIT_FAILURE"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)
