package poly

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSetSizes(t *testing.T) {
	tests := []struct {
		basis Basis
		d, p  int
		want  int
	}{
		{TensorGrid, 1, 3, 4},
		{TensorGrid, 2, 3, 16},
		{TotalOrder, 2, 3, 10},
		{TotalOrder, 3, 2, 10},
		{Univariate, 1, 3, 4},
		{Univariate, 3, 2, 7},
		{EuclideanDegree, 2, 2, 6},
		{Hyperbolic, 2, 2, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.basis), func(t *testing.T) {
			set, err := tt.basis.IndexSet(tt.d, tt.p)
			require.NoError(t, err)
			assert.Len(t, set, tt.want)

			// constant term first, every index has d entries and is unique
			assert.Equal(t, make([]int, tt.d), set[0])
			seen := map[string]bool{}
			for _, alpha := range set {
				require.Len(t, alpha, tt.d)
				key := ""
				for _, a := range alpha {
					key += string(rune('0' + a))
				}
				assert.False(t, seen[key], "duplicate multi-index %v", alpha)
				seen[key] = true
			}
		})
	}
}

func TestIndexSetSortedByDegree(t *testing.T) {
	set, err := TotalOrder.IndexSet(2, 2)
	require.NoError(t, err)

	prev := 0
	for _, alpha := range set {
		d := alpha[0] + alpha[1]
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
	assert.Equal(t, []int{1, 0}, set[1])
	assert.Equal(t, []int{0, 1}, set[2])
}

func TestParseBasis(t *testing.T) {
	for _, b := range Bases {
		got, err := ParseBasis(string(b))
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := ParseBasis("sparse-grid")
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "basis", valErr.ParamName)

	_, err = Basis("tensor-grid").IndexSet(0, 2)
	assert.Error(t, err)
}

func TestLegendreOrthonormalValues(t *testing.T) {
	vals := make([]float64, 4)
	legendreInto(vals, 0.5)

	assert.InDelta(t, 1.0, vals[0], 1e-14)
	assert.InDelta(t, math.Sqrt(3)*0.5, vals[1], 1e-14)
	assert.InDelta(t, math.Sqrt(5)*(3*0.25-1)/2, vals[2], 1e-14)
	assert.InDelta(t, math.Sqrt(7)*(5*0.125-3*0.5)/2, vals[3], 1e-14)
}

func TestLegendreOrthonormality(t *testing.T) {
	// midpoint rule; exact enough for products up to degree 6
	const n = 20000
	p := 3
	gram := make([][]float64, p+1)
	for i := range gram {
		gram[i] = make([]float64, p+1)
	}
	vals := make([]float64, p+1)
	for k := 0; k < n; k++ {
		u := -1 + (float64(k)+0.5)*2/float64(n)
		legendreInto(vals, u)
		for i := 0; i <= p; i++ {
			for j := 0; j <= p; j++ {
				gram[i][j] += vals[i] * vals[j] / n
			}
		}
	}
	for i := 0; i <= p; i++ {
		for j := 0; j <= p; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, gram[i][j], 1e-6, "gram[%d][%d]", i, j)
		}
	}
}

func TestBoundsValidate(t *testing.T) {
	assert.NoError(t, Bounds{Lower: 0, Upper: 1}.Validate())
	assert.Error(t, Bounds{Lower: 1, Upper: 1}.Validate())
	assert.Error(t, Bounds{Lower: 2, Upper: 1}.Validate())
	assert.Error(t, Bounds{Lower: math.Inf(-1), Upper: 1}.Validate())
}
