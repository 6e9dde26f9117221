package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "polytree: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "polytree: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			assert.Contains(t, formatted, "errors_test.go")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr), "Error should be castable to *ModelError")
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 3, 2, 1)

	want := "polytree: Predict: dimension mismatch on axis 1 (features). Expected 3, got 2"
	assert.Equal(t, want, err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("PolyTree", "Predict")

	want := "polytree: PolyTree: this model is not fitted yet. Call Fit() before using Predict()"
	assert.Equal(t, want, err.Error())

	var notFittedErr *NotFittedError
	assert.True(t, As(err, &notFittedErr))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("search", "must be 'exhaustive' or 'uniform'", "random")

	assert.Equal(t, "polytree: validation failed for parameter 'search': must be 'exhaustive' or 'uniform' (got: random)", err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "search", valErr.ParamName)
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("PolyTree.Fit", "X contains NaN or Inf")
	assert.Equal(t, "polytree: PolyTree.Fit: X contains NaN or Inf", err.Error())

	var valErr *ValueError
	assert.True(t, As(err, &valErr))
}

func TestFitError(t *testing.T) {
	cause := New("svd did not converge")
	err := NewFitError("LeastSquares.Fit", 12, 4, cause)

	assert.Equal(t, "polytree: LeastSquares.Fit: polynomial fit failed (samples=12, terms=4): svd did not converge", err.Error())
	assert.True(t, IsFitFailure(err))
	assert.True(t, Is(err, cause), "FitError should unwrap to its cause")

	// ラップされてもFitErrorとして判定できること
	wrapped := Wrap(err, "evaluating split")
	assert.True(t, IsFitFailure(wrapped))

	assert.False(t, IsFitFailure(NewValueError("op", "msg")))
	assert.False(t, IsFitFailure(nil))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "in Predict: expected 10, got 5")
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	assert.Contains(t, err3.Error(), "base error")

	// スタックトレースの確認（詳細表示）
	formatted := fmt.Sprintf("%+v", err3)
	assert.True(t, strings.Contains(formatted, "errors_test.go"), "Expected detailed error to contain stack trace")
}

func TestNumericalChecks(t *testing.T) {
	assert.NoError(t, CheckScalar("loss", 1.5, 0))
	assert.Error(t, CheckScalar("loss", nan(), 3))

	assert.NoError(t, CheckNumericalStability("coef", []float64{1, 2, 3}, 0))

	err := CheckNumericalStability("coef", []float64{1, inf(), 3}, 7)
	var instab *NumericalInstabilityError
	require.True(t, As(err, &instab))
	assert.Equal(t, 7, instab.Iteration)

	m := matrixStub{{1, 2}, {3, nan()}}
	err = CheckMatrix("design", m, 2, 2)
	require.True(t, As(err, &instab))
	assert.Equal(t, 1, instab.Iteration)
}

type matrixStub [][]float64

func (m matrixStub) At(i, j int) float64 { return m[i][j] }

func nan() float64 {
	zero := 0.0
	return zero / zero
}

func inf() float64 {
	zero := 0.0
	return 1 / zero
}
