package epsteinzeta

import (
	"math"
	"math/cmplx"

	"github.com/epsteinlib/epsteinzeta/internal/crandall"
	"github.com/epsteinlib/epsteinzeta/internal/linalg"
)

// variant selects which of the four public operations epsteinZetaInternal
// assembles: the plain and regularized sums share the same special-case
// handling in step 4; the two derivative variants assume a nonzero
// multi-index (the |alpha| = 0 fallback to the non-derivative operations is
// handled by the public entry points in epsteinzeta.go).
type variant int

const (
	variantPlain variant = iota
	variantRegularized
	variantSetZetaDer
	variantRegularizedDer
)

// kahanComplex accumulates a complex128 sum with Kahan compensated summation;
// Go's complex arithmetic already operates componentwise on the real and
// imaginary parts, so a single accumulator suffices for both.
type kahanComplex struct {
	sum, c complex128
}

func (k *kahanComplex) add(v complex128) {
	y := v - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

// phase returns e^{i*theta}.
func phase(theta float64) complex128 {
	return cmplx.Exp(complex(0, theta))
}

// cplxMultiPow returns (-2*pi*i*v)^alpha = product_k (-2*pi*i*v_k)^alpha_k,
// the multi-index complex power sum_real_der inserts ahead of G to realize
// the y-derivative of the real-space sum's phase-carrying summand.
func cplxMultiPow(v []float64, alpha []int) complex128 {
	p := complex(1.0, 0.0)
	for i, ai := range alpha {
		base := complex(0, -2*math.Pi*v[i])
		for k := 0; k < ai; k++ {
			p *= base
		}
	}
	return p
}

// sumReal evaluates the Kahan-compensated real-space sum of Crandall's
// formula over the cuboid [-cut_k, cut_k]^dim, centred at the projected
// shifts xCell, yCell.
func sumReal(dim int, nu float64, aPrime, xCell, yCell []float64, lambda float64, cut []int, zBound float64) complex128 {
	n := make([]int, dim)
	lv := make([]float64, dim)
	diff := make([]float64, dim)
	var acc kahanComplex
	total := cuboidSize(cut)
	for idx := 0; idx < total; idx++ {
		decode(cut, idx, n)
		linalg.MatVecInt(dim, aPrime, n, lv)
		for i := range diff {
			diff[i] = lv[i] - xCell[i]
		}
		r := phase(-2 * math.Pi * linalg.Dot(yCell, lv))
		acc.add(r * complex(crandall.G(nu, diff, 1/lambda, zBound), 0))
	}
	return acc.sum
}

// sumRealDer evaluates the real-space sum of the set-zeta-derivative
// variant: each summand is the plain-sum summand multiplied by
// (-2*pi*i*(lv-xCell))^alpha, the effect on the phase factor of
// differentiating the set-zeta sum alpha times with respect to y.
func sumRealDer(dim int, nu float64, aPrime, xCell, yCell []float64, lambda float64, cut []int, zBound float64, alpha []int) complex128 {
	n := make([]int, dim)
	lv := make([]float64, dim)
	diff := make([]float64, dim)
	var acc kahanComplex
	total := cuboidSize(cut)
	for idx := 0; idx < total; idx++ {
		decode(cut, idx, n)
		linalg.MatVecInt(dim, aPrime, n, lv)
		for i := range diff {
			diff[i] = lv[i] - xCell[i]
		}
		r := phase(-2 * math.Pi * linalg.Dot(yCell, lv))
		term := cplxMultiPow(diff, alpha) * complex(crandall.G(nu, diff, 1/lambda, zBound), 0)
		acc.add(r * term)
	}
	return acc.sum
}

// sumFourier evaluates the Kahan-compensated reciprocal-space sum of
// Crandall's formula, skipping the dual-lattice origin (handled separately
// as the zero summand by the caller), phased by xPhase.
func sumFourier(dim int, nuReci float64, bPrime, yCell, xPhase []float64, lambda float64, cut []int, zBound float64) complex128 {
	n := make([]int, dim)
	lv := make([]float64, dim)
	var acc kahanComplex
	total := cuboidSize(cut)
	skip := zeroIndex(cut)
	for idx := 0; idx < total; idx++ {
		if idx == skip {
			continue
		}
		decode(cut, idx, n)
		linalg.MatVecInt(dim, bPrime, n, lv)
		for i := range lv {
			lv[i] += yCell[i]
		}
		r := phase(-2 * math.Pi * linalg.Dot(xPhase, lv))
		acc.add(r * complex(crandall.G(nuReci, lv, lambda, zBound), 0))
	}
	return acc.sum
}

// sumFourierDer evaluates the reciprocal-space sum of the set-zeta-derivative
// variant: since the reciprocal lattice point already carries y additively
// (lv = B'*n + yCell), differentiating with respect to y only needs
// Crandall's derivative kernel at the same point.
func sumFourierDer(dim int, nuReci float64, bPrime, yCell, xPhase []float64, lambda float64, cut []int, zBound float64, alpha []int) complex128 {
	n := make([]int, dim)
	lv := make([]float64, dim)
	var acc kahanComplex
	total := cuboidSize(cut)
	skip := zeroIndex(cut)
	for idx := 0; idx < total; idx++ {
		if idx == skip {
			continue
		}
		decode(cut, idx, n)
		linalg.MatVecInt(dim, bPrime, n, lv)
		for i := range lv {
			lv[i] += yCell[i]
		}
		r := phase(-2 * math.Pi * linalg.Dot(xPhase, lv))
		acc.add(r * complex(crandall.GDer(nuReci, lv, lambda, zBound, alpha), 0))
	}
	return acc.sum
}

// nearEvenInt reports whether v is within 2^-30 of an even integer.
func nearEvenInt(v float64) bool {
	h := v / 2
	return math.Abs(h-math.Round(h)) < 0x1p-30
}

// epsteinZetaInternal is the Ewald dispatcher shared by all four public
// entry points: it rescales and projects the inputs into the elementary
// cell, derives the real- and reciprocal-space cutoffs, special-cases the
// pole and the non-positive even integer exponents, assembles the two
// Kahan-summed Ewald pieces, and applies the final prefactor and the
// nu = d + 2k logarithmic correction.
func epsteinZetaInternal(nu float64, dim int, a, x, y []float64, lambda float64, v variant, alpha []int) complex128 {
	aCopy := append([]float64(nil), a...)
	bInv, err := linalg.Invert(dim, aCopy)
	if err != nil {
		return complex(math.NaN(), math.NaN())
	}
	linalg.TransposeInPlace(dim, bInv) // B = inv(A)^T, the dual generator.

	vol := math.Abs(linalg.Det(dim, aCopy))
	mu := math.Pow(vol, -1.0/float64(dim))

	aPrime := make([]float64, dim*dim)
	bPrime := make([]float64, dim*dim)
	for i := range aPrime {
		aPrime[i] = mu * aCopy[i]
		bPrime[i] = bInv[i] / mu
	}
	xPrime := make([]float64, dim)
	yPrime := make([]float64, dim)
	for i := 0; i < dim; i++ {
		xPrime[i] = mu * x[i]
		yPrime[i] = y[i] / mu
	}

	xCell := projectToCell(dim, aPrime, bPrime, xPrime)
	yCell := projectToCell(dim, bPrime, aPrime, yPrime)

	cutReal, cutReci := cutoffs(dim, aPrime, bPrime)

	isDerivative := v == variantSetZetaDer || v == variantRegularizedDer

	if !isDerivative && nu < 1 && nearEvenInt(nu) {
		if linalg.Dot(xCell, xCell) == 0 && nu == 0 {
			return -phase(-2 * math.Pi * linalg.Dot(xPrime, yCell))
		}
		return 0
	}
	if v == variantPlain && math.Abs(nu-float64(dim)) < 0x1p-30 && linalg.Dot(yCell, yCell) < 1e-64 {
		return complex(math.NaN(), math.NaN())
	}

	zBound := crandall.ZArgBound(nu)
	nuReci := float64(dim) - nu
	zBoundReci := crandall.ZArgBound(nuReci)

	xfactor := phase(-2 * math.Pi * linalg.Dot(subtract(xPrime, xCell), yPrime))
	lambdaAlpha := complex(math.Pow(lambda, float64(mult(alpha))), 0)

	var sReal, sFourier complex128

	switch v {
	case variantPlain:
		nc := complex(crandall.G(nuReci, yCell, lambda, zBoundReci), 0) *
			phase(-2*math.Pi*linalg.Dot(xCell, yCell))
		sReal = sumReal(dim, nu, aPrime, xCell, yCell, lambda, cutReal, zBound)
		sFourier = sumFourier(dim, nuReci, bPrime, yCell, xCell, lambda, cutReci, zBoundReci) + nc
	case variantRegularized:
		rot := phase(2 * math.Pi * linalg.Dot(xPrime, yPrime))
		nc := complex(crandall.GReg(nuReci, yPrime, lambda), 0)
		sFourier = sumFourier(dim, nuReci, bPrime, yCell, xPrime, lambda, cutReci, zBoundReci)
		// correct the wrong zero summand if y was projected.
		if !linalg.Equal(yPrime, yCell) {
			sFourier += complex(crandall.G(nuReci, yCell, lambda, zBoundReci), 0)*phase(-2*math.Pi*linalg.Dot(xPrime, yCell)) -
				complex(crandall.G(nuReci, yPrime, lambda, zBoundReci), 0)*phase(-2*math.Pi*linalg.Dot(xPrime, yPrime))
		}
		sFourier = sFourier*rot + nc
		sReal = sumReal(dim, nu, aPrime, xCell, yCell, lambda, cutReal, zBound) * rot * xfactor
		xfactor = 1
	case variantSetZetaDer:
		rot := phase(2 * math.Pi * linalg.Dot(xPrime, yPrime))
		var nc complex128
		if linalg.Equal(yPrime, yCell) {
			nc = complex(crandall.GDer(nuReci, yPrime, lambda, zBoundReci, alpha), 0)
		} else {
			nc = complex(crandall.GDer(nuReci, yCell, lambda, zBoundReci, alpha), 0) *
				phase(-2*math.Pi*linalg.Dot(yCell, xPrime)) * rot
		}
		sFourier = sumFourierDer(dim, nuReci, bPrime, yCell, xPrime, lambda, cutReci, zBoundReci, alpha)
		sFourier = lambdaAlpha * (sFourier*rot + nc)
		sReal = sumRealDer(dim, nu, aPrime, xCell, yCell, lambda, cutReal, zBound, alpha) * rot * xfactor
		xfactor = complex(1/math.Pow(mu, float64(mult(alpha))), 0)
	case variantRegularizedDer:
		rot := phase(2 * math.Pi * linalg.Dot(xPrime, yPrime))
		nc := complex(crandall.GRegDer(nuReci, yPrime, lambda, alpha), 0)
		sFourier = sumFourierDer(dim, nuReci, bPrime, yCell, xPrime, lambda, cutReci, zBoundReci, alpha)
		if !linalg.Equal(yPrime, yCell) {
			sFourier += complex(crandall.GDer(nuReci, yCell, lambda, zBoundReci, alpha), 0)*phase(-2*math.Pi*linalg.Dot(xPrime, yCell)) -
				complex(crandall.GDer(nuReci, yPrime, lambda, zBoundReci, alpha), 0)*phase(-2*math.Pi*linalg.Dot(xPrime, yPrime))
		}
		sFourier = lambdaAlpha * (sFourier*rot + nc)
		sReal = sumRealDer(dim, nu, aPrime, xCell, yCell, lambda, cutReal, zBound, alpha) * rot * xfactor
		xfactor = complex(1/math.Pow(mu, float64(mult(alpha))), 0)
	}

	prefactor := complex(math.Pow(lambda*lambda/math.Pi, -nu/2)/math.Gamma(nu/2), 0)
	lambdaD := complex(math.Pow(lambda, float64(dim)), 0)
	result := xfactor * prefactor * (sReal + lambdaD*sFourier)
	result *= complex(math.Pow(mu, nu), 0)

	// apply the matrix-scaling correction if nu = dim + 2k.
	k := math.Max(0, math.Round((nu-float64(dim))/2))
	if v == variantRegularized && nu == float64(dim)+2*k {
		logMuSq := math.Log(mu * mu)
		if k == 0 {
			result += complex(math.Pow(math.Pi, float64(dim)/2)/math.Gamma(float64(dim)/2)*logMuSq/vol, 0)
		} else {
			sign := 1.0
			if int(k+1)%2 != 0 {
				sign = -1.0
			}
			ySq := linalg.Dot(y, y)
			term := math.Pow(math.Pi, 2*k+float64(dim)/2) / math.Gamma(k+float64(dim)/2) *
				sign / math.Gamma(k+1) * math.Pow(ySq, k) * logMuSq / vol
			result -= complex(term, 0)
		}
	}

	return result
}

func subtract(u, v []float64) []float64 {
	out := make([]float64, len(u))
	for i := range u {
		out[i] = u[i] - v[i]
	}
	return out
}

func mult(alpha []int) int {
	s := 0
	for _, a := range alpha {
		s += a
	}
	return s
}
