package poly

import (
	"math"

	"github.com/YuminosukeSato/polytree/metrics"
	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/YuminosukeSato/polytree/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Fitter fits a polynomial to rows of X and outputs y on the given
// per-feature bounds. It returns the model and its in-sample MSE.
// Implementations report ill-conditioned or degenerate problems with an
// error for which errors.IsFitFailure is true.
type Fitter interface {
	Fit(X mat.Matrix, y []float64, bounds []Bounds) (*Poly, float64, error)
}

// LeastSquares is the default Fitter: orthonormal Legendre basis, index set
// chosen by Basis, solved by thin SVD with a numpy-style rank cut-off.
type LeastSquares struct {
	Order int
	Basis Basis
}

// NewLeastSquares validates the configuration and returns a fitter.
func NewLeastSquares(order int, basis Basis) (*LeastSquares, error) {
	if order < 1 {
		return nil, errors.NewValidationError("order", "must be a positive integer", order)
	}
	if err := basis.Validate(); err != nil {
		return nil, err
	}
	return &LeastSquares{Order: order, Basis: basis}, nil
}

// Fit implements Fitter.
func (ls *LeastSquares) Fit(X mat.Matrix, y []float64, bounds []Bounds) (p *Poly, mse float64, err error) {
	defer errors.Recover(&err, "LeastSquares.Fit")

	n, d := X.Dims()
	if len(y) != n {
		return nil, 0, errors.NewDimensionError("LeastSquares.Fit", n, len(y), 0)
	}
	if len(bounds) != d {
		return nil, 0, errors.NewDimensionError("LeastSquares.Fit", d, len(bounds), 1)
	}
	if n == 0 {
		return nil, 0, errors.NewFitError("LeastSquares.Fit", 0, 0, errors.ErrEmptyData)
	}
	for j, b := range bounds {
		if err := b.Validate(); err != nil {
			return nil, 0, errors.NewFitError("LeastSquares.Fit", n, 0, errors.Wrapf(err, "feature %d", j))
		}
	}

	indices, err := ls.Basis.IndexSet(d, ls.Order)
	if err != nil {
		return nil, 0, err
	}
	terms := len(indices)

	design := mat.NewDense(n, terms, nil)
	x := make([]float64, d)
	table := newUnivariateTable(d, ls.Order)
	for i := 0; i < n; i++ {
		mat.Row(x, i, X)
		buildDesignRow(design.RawRowView(i), x, bounds, indices, table)
	}
	if err := errors.CheckMatrix("design_matrix", design, n, terms); err != nil {
		return nil, 0, errors.NewFitError("LeastSquares.Fit", n, terms, err)
	}
	if err := errors.CheckNumericalStability("outputs", y, 0); err != nil {
		return nil, 0, errors.NewFitError("LeastSquares.Fit", n, terms, err)
	}

	coef, rank, err := solveMinNorm(design, y)
	if err != nil {
		return nil, 0, errors.NewFitError("LeastSquares.Fit", n, terms, err)
	}
	if rank < terms {
		log.GetLoggerWithName("poly").Debug("rank-deficient design matrix",
			log.SamplesKey, n,
			log.TermsKey, terms,
			log.RankKey, rank,
		)
	}

	p = &Poly{
		order:   ls.Order,
		basis:   ls.Basis,
		bounds:  append([]Bounds(nil), bounds...),
		indices: indices,
		coef:    coef,
		rank:    rank,
	}

	fitted := make([]float64, n)
	var fv mat.VecDense
	fv.MulVec(design, mat.NewVecDense(terms, coef))
	copy(fitted, fv.RawVector().Data)

	mse, err = metrics.MSEValues(y, fitted)
	if err != nil {
		return nil, 0, err
	}
	if err := errors.CheckScalar("mse", mse, 0); err != nil {
		return nil, 0, errors.NewFitError("LeastSquares.Fit", n, terms, err)
	}
	p.mse = mse
	return p, mse, nil
}

// solveMinNorm returns the minimum-norm least-squares solution of A·c = y.
// Singular values below max(n, terms)·eps·σ_max are treated as zero.
func solveMinNorm(a *mat.Dense, y []float64) ([]float64, int, error) {
	n, terms := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, errors.Wrap(errors.ErrSingularMatrix, "svd factorization failed")
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	tol := float64(max(n, terms)) * eps * s[0]
	rank := 0
	for _, sv := range s {
		if sv > tol {
			rank++
		}
	}
	if rank == 0 {
		// An all-zero design cannot happen with a constant term, so this is a
		// numerical breakdown.
		return nil, 0, errors.Wrap(errors.ErrSingularMatrix, "design matrix has rank zero")
	}

	var utb mat.VecDense
	utb.MulVec(u.T(), mat.NewVecDense(n, append([]float64(nil), y...)))
	for i := 0; i < utb.Len(); i++ {
		if i < rank {
			utb.SetVec(i, utb.AtVec(i)/s[i])
		} else {
			utb.SetVec(i, 0)
		}
	}

	var c mat.VecDense
	c.MulVec(&v, &utb)
	coef := append([]float64(nil), c.RawVector().Data...)
	if err := errors.CheckNumericalStability("coefficients", coef, 0); err != nil {
		return nil, rank, err
	}
	return coef, rank, nil
}

var eps = math.Nextafter(1, 2) - 1
