package poly

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/polytree/pkg/errors"
)

// Basis names an isotropic multi-index family. It decides which products of
// univariate polynomials appear in a multivariate fit.
type Basis string

const (
	// Univariate keeps terms in a single feature only (additive model).
	Univariate Basis = "univariate"
	// TotalOrder keeps multi-indices with |α|₁ <= order.
	TotalOrder Basis = "total-order"
	// TensorGrid keeps multi-indices with max(α) <= order.
	TensorGrid Basis = "tensor-grid"
	// Hyperbolic keeps multi-indices with (Σ α_i^q)^(1/q) <= order, q = HyperbolicQ.
	Hyperbolic Basis = "hyperbolic-basis"
	// EuclideanDegree keeps multi-indices with |α|₂ <= order.
	EuclideanDegree Basis = "euclidean-degree"
)

// HyperbolicQ is the q-norm exponent of the hyperbolic index set.
const HyperbolicQ = 0.5

const admissibleTol = 1e-12

// Bases lists the supported families.
var Bases = []Basis{Univariate, TotalOrder, TensorGrid, Hyperbolic, EuclideanDegree}

// ParseBasis converts a basis name to a Basis.
func ParseBasis(name string) (Basis, error) {
	for _, b := range Bases {
		if string(b) == name {
			return b, nil
		}
	}
	return "", errors.NewValidationError("basis",
		"must be one of univariate, total-order, tensor-grid, hyperbolic-basis, euclidean-degree", name)
}

// Validate reports whether b is a supported family.
func (b Basis) Validate() error {
	_, err := ParseBasis(string(b))
	return err
}

// admissible reports whether the multi-index alpha belongs to the family of order p.
// Every family is monotone: lowering any entry keeps an admissible index admissible.
func (b Basis) admissible(alpha []int, p int) bool {
	switch b {
	case Univariate:
		nonzero := 0
		for _, a := range alpha {
			if a > p {
				return false
			}
			if a > 0 {
				nonzero++
			}
		}
		return nonzero <= 1
	case TotalOrder:
		sum := 0
		for _, a := range alpha {
			sum += a
		}
		return sum <= p
	case TensorGrid:
		for _, a := range alpha {
			if a > p {
				return false
			}
		}
		return true
	case Hyperbolic:
		var sum float64
		for _, a := range alpha {
			if a > 0 {
				sum += math.Pow(float64(a), HyperbolicQ)
			}
		}
		return math.Pow(sum, 1/HyperbolicQ) <= float64(p)+admissibleTol
	case EuclideanDegree:
		var sum float64
		for _, a := range alpha {
			sum += float64(a * a)
		}
		return math.Sqrt(sum) <= float64(p)+admissibleTol
	}
	return false
}

// IndexSet enumerates the multi-indices of the family for d features and
// order p, sorted by total degree and then lexicographically. The constant
// term is always first.
func (b Basis) IndexSet(d, p int) ([][]int, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if d < 1 {
		return nil, errors.NewValidationError("dimensions", "must be at least 1", d)
	}
	if p < 0 {
		return nil, errors.NewValidationError("order", "must be non-negative", p)
	}

	var out [][]int
	alpha := make([]int, d)
	var walk func(j int)
	walk = func(j int) {
		if j == d {
			out = append(out, append([]int(nil), alpha...))
			return
		}
		for a := 0; a <= p; a++ {
			alpha[j] = a
			if !b.admissible(alpha, p) {
				break
			}
			walk(j + 1)
		}
		alpha[j] = 0
	}
	walk(0)

	sort.SliceStable(out, func(i, k int) bool {
		di, dk := degree(out[i]), degree(out[k])
		if di != dk {
			return di < dk
		}
		for j := range out[i] {
			if out[i][j] != out[k][j] {
				return out[i][j] > out[k][j]
			}
		}
		return false
	})
	return out, nil
}

func degree(alpha []int) int {
	sum := 0
	for _, a := range alpha {
		sum += a
	}
	return sum
}
