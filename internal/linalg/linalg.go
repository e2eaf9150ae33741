// Package linalg provides the small set of linear-algebra primitives the
// Epstein zeta engine needs: raw slice arithmetic for the per-lattice-point
// hot loop, and gonum-backed matrix inversion and norms for the once-per-call
// setup work.
package linalg

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned by Invert when the input matrix has no inverse.
var ErrSingular = errors.New("linalg: matrix is singular")

// Dot returns the Euclidean dot product of u and v, which must have equal length.
func Dot(u, v []float64) float64 {
	var r float64
	for i, ui := range u {
		r += ui * v[i]
	}
	return r
}

// MatVecInt computes m*n where m is a dim-by-dim row-major matrix and n is an
// integer vector, writing the result into dst.
func MatVecInt(dim int, m []float64, n []int, dst []float64) {
	for i := 0; i < dim; i++ {
		var s float64
		row := m[i*dim : i*dim+dim]
		for j, nj := range n {
			s += row[j] * float64(nj)
		}
		dst[i] = s
	}
}

// TransposeInPlace transposes the dim-by-dim row-major matrix m in place.
func TransposeInPlace(dim int, m []float64) {
	for i := 0; i < dim; i++ {
		for j := 0; j < i; j++ {
			m[i*dim+j], m[j*dim+i] = m[j*dim+i], m[i*dim+j]
		}
	}
}

// eps is the minimal distance between vector elements considered unequal,
// matching the original implementation's 2^-32 tolerance.
const eps = 0x1p-32

// Equal reports whether u and v are equal within the engine's fixed tolerance.
func Equal(u, v []float64) bool {
	for i, ui := range u {
		if math.Abs(ui-v[i]) >= eps {
			return false
		}
	}
	return true
}

// IsZero reports whether every component of v is within the engine's fixed
// tolerance of zero.
func IsZero(v []float64) bool {
	for _, vi := range v {
		if math.Abs(vi) >= eps {
			return false
		}
	}
	return true
}

// Invert returns the inverse of the dim-by-dim row-major matrix a, computed
// with gonum's mat.Dense.Inverse (an LU factor-and-solve against the
// identity under the hood), the Go equivalent of this package's C original
// hand-rolled partial-pivot LU-invert. It reports ErrSingular if a has no
// inverse.
func Invert(dim int, a []float64) ([]float64, error) {
	m := mat.NewDense(dim, dim, append([]float64(nil), a...))
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, ErrSingular
	}
	out := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			out[i*dim+j] = inv.At(i, j)
		}
	}
	return out, nil
}

// Det returns the determinant of the dim-by-dim row-major matrix a.
func Det(dim int, a []float64) float64 {
	m := mat.NewDense(dim, dim, append([]float64(nil), a...))
	return mat.Det(m)
}

// InfNorm returns the infinity norm (maximum absolute row sum) of the
// dim-by-dim row-major matrix a.
func InfNorm(dim int, a []float64) float64 {
	m := mat.NewDense(dim, dim, append([]float64(nil), a...))
	return mat.Norm(m, math.Inf(1))
}
