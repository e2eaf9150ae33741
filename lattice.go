package epsteinzeta

import (
	"math"

	"github.com/epsteinlib/epsteinzeta/internal/linalg"
)

// gBound is the half-width beyond which G(nu, z, 1) is numerically negligible
// for |nu| < 10; it sets the default real- and reciprocal-space cutoffs.
const gBound = 3.2

// isDiagonal reports whether the dim-by-dim row-major matrix m has zero
// off-diagonal entries within the engine's fixed tolerance.
func isDiagonal(dim int, m []float64) bool {
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i == j {
				continue
			}
			if math.Abs(m[i*dim+j]) >= 0x1p-32 {
				return false
			}
		}
	}
	return true
}

// cutoffs returns the per-axis half-widths of the real-space and
// reciprocal-space cuboids over which the two Ewald sums are enumerated,
// derived from the rescaled generator aPrime and its transpose inverse
// bPrime.
func cutoffs(dim int, aPrime, bPrime []float64) (real, reci []int) {
	real = make([]int, dim)
	reci = make([]int, dim)
	if isDiagonal(dim, aPrime) {
		for k := 0; k < dim; k++ {
			real[k] = int((gBound + 0.5) / math.Abs(aPrime[k*dim+k]))
			reci[k] = int((gBound + 0.5) * math.Abs(aPrime[k*dim+k]))
		}
		return real, reci
	}
	cReal := int((gBound + 0.5) * linalg.InfNorm(dim, bPrime))
	cReci := int((gBound + 0.5) * linalg.InfNorm(dim, aPrime))
	for k := 0; k < dim; k++ {
		real[k] = cReal
		reci[k] = cReci
	}
	return real, reci
}

// roundHalfToEven implements IEEE remainder(t, 1): the representative of t
// modulo 1 nearest zero, ties rounding to the nearest even integer.
func roundHalfToEven(t float64) float64 {
	return math.Remainder(t, 1)
}

// projectToCell projects v into the elementary cell {m*t : t in (-1/2,1/2]^d}
// of the generator m with inverse transpose mInvt: it computes t = mInvt^T * v
// and, if every component already lies in (-1/2, 1/2], returns v unchanged;
// otherwise it reduces each component mod 1 and maps back through m. The real
// shift x projects with (m, mInvt) = (A', B'); the dual shift y projects into
// the dual lattice's cell with the roles swapped.
func projectToCell(dim int, m, mInvt, v []float64) []float64 {
	t := make([]float64, dim)
	for i := 0; i < dim; i++ {
		var s float64
		for j := 0; j < dim; j++ {
			s += mInvt[j*dim+i] * v[j]
		}
		t[i] = s
	}
	inCell := true
	for _, ti := range t {
		if ti <= -0.5 || ti > 0.5 {
			inCell = false
			break
		}
	}
	if inCell {
		out := make([]float64, dim)
		copy(out, v)
		return out
	}
	for i := range t {
		t[i] = roundHalfToEven(t[i])
	}
	out := make([]float64, dim)
	for i := 0; i < dim; i++ {
		var s float64
		row := m[i*dim : i*dim+dim]
		for j, tj := range t {
			s += row[j] * tj
		}
		out[i] = s
	}
	return out
}

// cuboidSize returns the total number of lattice points in the cuboid
// [-c_k, c_k]^dim.
func cuboidSize(c []int) int {
	total := 1
	for _, ck := range c {
		total *= 2*ck + 1
	}
	return total
}

// decode expands the linear index n, 0 <= n < cuboidSize(c), into the
// integer multi-index m in [-c_k, c_k]^dim via mixed-radix decoding, writing
// the result into dst.
func decode(c []int, n int, dst []int) {
	for i := len(c) - 1; i >= 0; i-- {
		width := 2*c[i] + 1
		dst[i] = n%width - c[i]
		n /= width
	}
}

// zeroIndex returns the linear index of the zero multi-index within the
// cuboid [-c_k, c_k]^dim, the point the reciprocal sum must skip.
func zeroIndex(c []int) int {
	idx := 0
	for _, ck := range c {
		idx = idx*(2*ck+1) + ck
	}
	return idx
}
