package poly

import (
	"math"

	"github.com/YuminosukeSato/polytree/pkg/errors"
)

// Bounds is the closed interval a feature's basis is defined on.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Validate requires finite bounds with Upper > Lower.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Lower) || math.IsInf(b.Lower, 0) || math.IsNaN(b.Upper) || math.IsInf(b.Upper, 0) {
		return errors.NewValueError("Bounds.Validate", "bounds must be finite")
	}
	if b.Upper <= b.Lower {
		return errors.NewValueError("Bounds.Validate", "upper bound must exceed lower bound")
	}
	return nil
}

// scale maps x from [Lower, Upper] to [-1, 1].
func (b Bounds) scale(x float64) float64 {
	return 2*(x-b.Lower)/(b.Upper-b.Lower) - 1
}

// legendreInto writes the orthonormal Legendre values ψ_0..ψ_p at t into dst.
// ψ_k = √(2k+1)·P_k, orthonormal against the uniform density on [-1, 1].
func legendreInto(dst []float64, t float64) {
	p := len(dst) - 1
	if p < 0 {
		return
	}
	prev, cur := 0.0, 1.0
	dst[0] = 1
	for k := 1; k <= p; k++ {
		// (k)P_k = (2k-1) t P_{k-1} - (k-1) P_{k-2}
		next := (float64(2*k-1)*t*cur - float64(k-1)*prev) / float64(k)
		prev, cur = cur, next
		dst[k] = cur * math.Sqrt(float64(2*k+1))
	}
}
