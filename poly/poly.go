// Package poly fits orthogonal-polynomial least-squares models on bounded
// domains.
//
// Each feature gets an orthonormal Legendre basis on its own [Lower, Upper]
// interval; multivariate terms are products selected by a Basis family. The
// least-squares problem is solved through a thin SVD so rank-deficient
// designs (constant features, fewer rows than terms) get the minimum-norm
// solution instead of failing.
package poly

import (
	"github.com/YuminosukeSato/polytree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Poly is a fitted multivariate polynomial. It is immutable and safe for
// concurrent evaluation.
type Poly struct {
	order   int
	basis   Basis
	bounds  []Bounds
	indices [][]int
	coef    []float64
	mse     float64
	rank    int
}

// Order returns the polynomial order used for the index set.
func (p *Poly) Order() int { return p.order }

// Basis returns the index-set family.
func (p *Poly) Basis() Basis { return p.basis }

// NFeatures returns the input dimension.
func (p *Poly) NFeatures() int { return len(p.bounds) }

// NTerms returns the number of basis functions.
func (p *Poly) NTerms() int { return len(p.indices) }

// MSE returns the in-sample mean squared error of the fit.
func (p *Poly) MSE() float64 { return p.mse }

// Rank returns the numerical rank of the design matrix the fit was solved with.
func (p *Poly) Rank() int { return p.rank }

// Bounds returns a copy of the per-feature domain bounds.
func (p *Poly) Bounds() []Bounds {
	return append([]Bounds(nil), p.bounds...)
}

// Coefficients returns a copy of the coefficients, aligned with Indices.
func (p *Poly) Coefficients() []float64 {
	return append([]float64(nil), p.coef...)
}

// Indices returns a copy of the multi-indices of the basis terms.
func (p *Poly) Indices() [][]int {
	out := make([][]int, len(p.indices))
	for i, alpha := range p.indices {
		out[i] = append([]int(nil), alpha...)
	}
	return out
}

// Mean returns the mean of the polynomial over its domain (the constant
// coefficient, since the basis is orthonormal).
func (p *Poly) Mean() float64 {
	if len(p.coef) == 0 {
		return 0
	}
	return p.coef[0]
}

// EvaluatePoint evaluates the polynomial at a single point. It panics if
// len(x) differs from NFeatures; use Evaluate for checked batch evaluation.
func (p *Poly) EvaluatePoint(x []float64) float64 {
	row := make([]float64, len(p.indices))
	p.designRow(row, x, newUnivariateTable(len(p.bounds), p.order))
	return floats.Dot(row, p.coef)
}

// Evaluate evaluates the polynomial at every row of X.
func (p *Poly) Evaluate(X mat.Matrix) ([]float64, error) {
	r, c := X.Dims()
	if c != len(p.bounds) {
		return nil, errors.NewDimensionError("Poly.Evaluate", len(p.bounds), c, 1)
	}
	out := make([]float64, r)
	x := make([]float64, c)
	row := make([]float64, len(p.indices))
	table := newUnivariateTable(c, p.order)
	for i := 0; i < r; i++ {
		mat.Row(x, i, X)
		p.designRow(row, x, table)
		out[i] = floats.Dot(row, p.coef)
	}
	return out, nil
}

// univariateTable caches ψ_0..ψ_order per feature for one input row.
type univariateTable [][]float64

func newUnivariateTable(d, order int) univariateTable {
	t := make(univariateTable, d)
	for j := range t {
		t[j] = make([]float64, order+1)
	}
	return t
}

// designRow fills row with the basis functions evaluated at x.
func (p *Poly) designRow(row, x []float64, table univariateTable) {
	buildDesignRow(row, x, p.bounds, p.indices, table)
}

func buildDesignRow(row, x []float64, bounds []Bounds, indices [][]int, table univariateTable) {
	for j, b := range bounds {
		legendreInto(table[j], b.scale(x[j]))
	}
	for k, alpha := range indices {
		v := 1.0
		for j, a := range alpha {
			if a > 0 {
				v *= table[j][a]
			}
		}
		row[k] = v
	}
}
