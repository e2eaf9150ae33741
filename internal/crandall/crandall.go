// Package crandall implements the summand function G of Crandall's formula
// (and its regularized and multi-index-derivative variants), the common
// kernel shared by the real-space and reciprocal-space sums of the Epstein
// zeta engine.
package crandall

import (
	"math"

	"github.com/epsteinlib/epsteinzeta/internal/incgamma"
	"github.com/epsteinlib/epsteinzeta/internal/polyder"
)

// nuEps is the tolerance around nu at which the z-argument boundary table
// snaps to its narrow bands around nu = 2 and nu = 4.
const nuEps = 0x1p-30

// ZArgBound returns the threshold beyond which G(nu, z, 1) is evaluated with
// the two-term asymptotic expansion instead of the incomplete gamma kernel,
// chosen so the expansion carries about 1e-13 absolute accuracy over the
// stated nu range.
func ZArgBound(nu float64) float64 {
	switch {
	case (nu > 2-nuEps && nu < 2+nuEps) || (nu > 4-nuEps && nu < 4+nuEps):
		return math.Pi * 2.6 * 2.6
	case nu > 1.6 && nu < 4.4:
		return math.Pi * 2.99 * 2.99
	case nu > -3 && nu < 8:
		return math.Pi * 3.15 * 3.15
	case nu > -70 && nu < 40:
		return math.Pi * 3.35 * 3.35
	case nu > -600 && nu < 80:
		return math.Pi * 3.5 * 3.5
	default:
		return 1e16
	}
}

func dot(v []float64) float64 {
	s := 0.0
	for _, vi := range v {
		s += vi * vi
	}
	return s
}

// G evaluates Gamma(nu/2, pi*prefactor^2*|z|^2) / (pi*prefactor^2*|z|^2)^(nu/2),
// the summand function of Crandall's formula, switching between the exact
// incomplete-gamma kernel and its near-origin limit / far-field asymptotic
// expansion depending on the size of the argument relative to zArgBound.
func G(nu float64, z []float64, prefactor, zArgBound float64) float64 {
	w := dot(z) * math.Pi * prefactor * prefactor
	switch {
	case w < 0x1p-62:
		return -2 / nu
	case w > zArgBound:
		return math.Exp(-w) * (-2 + 2*w + nu) / (2 * w * w)
	default:
		return incgamma.Ugamma(nu/2, w) / math.Pow(w, nu/2)
	}
}

// taylorCutoff is the argument below which the nu=dim near-zero regularized
// zero summand is evaluated with a hard-coded Taylor series instead of the
// general incomplete-gamma expansion.
const taylorCutoff = 0.1 * 0.1 * math.Pi

// eulerGamma is the Euler-Mascheroni constant, the leading coefficient of
// the s=0 Taylor expansion below.
const eulerGamma = 0.57721566490153286555

var regZeroTaylor = [10]float64{
	-eulerGamma, 1, -0.25, 0.05555555555555555, -0.010416666666666666,
	0.0016666666666666668, -0.0002314814814814815, 0.00002834467120181406,
	-3.1001984126984127e-6, 3.0619243582206544e-7,
}

// gRegNuEqualsDimPlus2k evaluates the regularized zero summand in the
// special case s = dim - nu = -2k for some non-negative integer k, where the
// general gammaStar-based formula has a removable singularity.
func gRegNuEqualsDimPlus2k(s, arg, k, lambda float64) float64 {
	var gReg float64
	switch {
	case s == 0 && arg < taylorCutoff:
		for i, c := range regZeroTaylor {
			gReg += c * polyder.IntPow(arg, i)
		}
	case arg == 0:
		gReg = 1 / k
	default:
		sign := 1.0
		if int(k)%2 != 0 {
			sign = -1.0
		}
		fact := 1.0
		for i := 2; i <= int(k); i++ {
			fact *= float64(i)
		}
		gReg = math.Pow(arg, k) * (incgamma.Ugamma(-k, arg) + (sign/fact)*math.Log(arg))
	}
	gReg -= math.Pow(arg, k) * math.Log(lambda*lambda)
	return gReg
}

// GReg evaluates the regularization of the zero summand in the reciprocal
// sum of Crandall's formula, -Gamma(s/2)*GammaStar(s/2, pi*prefactor^2*|z|^2)
// for generic s = dim - nu, with a dedicated near-zero-argument expansion
// whenever s is a non-positive even integer.
func GReg(s float64, z []float64, prefactor float64) float64 {
	arg := dot(z) * math.Pi * prefactor * prefactor
	k := -math.Round(s / 2)
	if s < 1 && s == -2*k {
		return gRegNuEqualsDimPlus2k(s, arg, k, prefactor)
	}
	return -math.Gamma(s/2) * incgamma.GammaStar(s/2, arg)
}

// fDeriv returns the m-th derivative with respect to w of
// f(w) = Gamma(a, w), using f'(w) = -w^(a-1)*e^-w and Leibniz's rule on its
// own repeated differentiation.
func fDeriv(a, w float64, m int) float64 {
	if m == 0 {
		return incgamma.Ugamma(a, w)
	}
	// d^(m-1)/dw^(m-1) [-w^(a-1) e^-w] via Leibniz on the product.
	sum := 0.0
	binom := 1.0
	for i := 0; i <= m-1; i++ {
		// d^i/dw^i w^(a-1) = (a-1)(a-2)...(a-i) * w^(a-1-i)
		falling := 1.0
		for j := 0; j < i; j++ {
			falling *= a - 1 - float64(j)
		}
		// d^(m-1-i)/dw^(m-1-i) e^-w = (-1)^(m-1-i) e^-w
		sign := 1.0
		if (m-1-i)%2 == 1 {
			sign = -1.0
		}
		sum += binom * falling * math.Pow(w, a-1-float64(i)) * sign * math.Exp(-w)
		binom *= float64(m-1-i) / float64(i+1)
	}
	return -sum
}

// GDer returns the alpha-th partial derivative of G with respect to z,
// obtained by writing G(z) = f(|z|^2) * (c*|z|^2)^(-nu/2) with f(s) = Gamma(nu/2, c*s),
// c = pi*prefactor^2, and applying Leibniz's rule over the shared variable
// s = |z|^2 before handing the resulting univariate derivative sequence to
// polyder's radial multi-index calculus.
func GDer(nu float64, z []float64, prefactor, zArgBound float64, alpha []int) float64 {
	_ = zArgBound // the incomplete-gamma kernel used here is uniform in its
	// whole domain; the derivative variant has no separate asymptotic branch.
	c := math.Pi * prefactor * prefactor
	a := nu / 2
	s := dot(z)

	// f(s) = Gamma(a, c*s); chain rule: d^m/ds^m f(c*s) = c^m * fDeriv(a, c*s, m).
	fOfS := func(m int) float64 {
		return polyder.IntPow(c, m) * fDeriv(a, c*s, m)
	}
	// pow(s) = (c*s)^-a = c^-a * s^-a.
	powOfS := func(m int) float64 {
		falling := 1.0
		for i := 0; i < m; i++ {
			falling *= -a - float64(i)
		}
		return math.Pow(c, -a) * falling * math.Pow(s, -a-float64(m))
	}
	gDeriv := func(m int) float64 {
		total := 0.0
		binom := 1.0
		for i := 0; i <= m; i++ {
			total += binom * fOfS(i) * powOfS(m-i)
			binom *= float64(m-i) / float64(i+1)
		}
		return total
	}
	return polyder.RadialDeriv(z, alpha, gDeriv)
}

// GRegDer returns the alpha-th partial derivative of GReg with respect to z.
// Away from s = dim-nu being a non-positive even integer, GReg(z) is the
// smooth radial function -Gamma(s/2)*GammaStar(s/2, pi*prefactor^2*|z|^2),
// differentiated the same way as GDer's incomplete-gamma factor. At those
// special s values GReg is instead the smooth closed form
// arg^k*(Gamma(-k,arg) + (-1)^k/k! * log(arg)) - log(lambda^2)*arg^k (the
// same expression gRegNuEqualsDimPlus2k evaluates; its Taylor-series branch
// is only a numerically stable way to evaluate it near arg=0 and carries the
// same derivatives), which this differentiates term by term via Leibniz's
// rule on its three summands.
func GRegDer(s float64, z []float64, prefactor float64, alpha []int) float64 {
	c := math.Pi * prefactor * prefactor
	u := dot(z)
	k := -math.Round(s / 2)
	if s < 1 && s == -2*k {
		kk := int(k)
		sign := 1.0
		if kk%2 != 0 {
			sign = -1.0
		}
		fact := 1.0
		for i := 2; i <= kk; i++ {
			fact *= float64(i)
		}
		logLambdaSq := math.Log(prefactor * prefactor)

		// p(u) = arg^k = c^k * u^k.
		pOfU := func(m int) float64 {
			if m > kk {
				return 0
			}
			falling := 1.0
			for i := 0; i < m; i++ {
				falling *= float64(kk - i)
			}
			return polyder.IntPow(c, kk) * falling * math.Pow(u, float64(kk-m))
		}
		// q(u) = Gamma(-k, c*u).
		qOfU := func(m int) float64 {
			return polyder.IntPow(c, m) * fDeriv(-k, c*u, m)
		}
		// r(u) = (-1)^k/k! * log(c*u).
		rOfU := func(m int) float64 {
			if m == 0 {
				return (sign / fact) * math.Log(c*u)
			}
			rsign := 1.0
			if (m-1)%2 == 1 {
				rsign = -1.0
			}
			rfact := 1.0
			for i := 2; i < m; i++ {
				rfact *= float64(i)
			}
			return (sign / fact) * rsign * rfact / math.Pow(u, float64(m))
		}
		gDeriv := func(m int) float64 {
			total := 0.0
			binom := 1.0
			for i := 0; i <= m; i++ {
				total += binom * pOfU(i) * (qOfU(m-i) + rOfU(m-i))
				binom *= float64(m-i) / float64(i+1)
			}
			total -= logLambdaSq * pOfU(m)
			return total
		}
		return polyder.RadialDeriv(z, alpha, gDeriv)
	}
	a := s / 2
	// pj(j) is the j-th derivative of pow(u) = (c*u)^-a.
	pj := func(j int) float64 {
		fall := 1.0
		for t := 0; t < j; t++ {
			fall *= -a - float64(t)
		}
		return math.Pow(c, -a) * fall * math.Pow(u, -a-float64(j))
	}
	gDeriv := func(m int) float64 {
		if m == 0 {
			return -math.Gamma(a) * incgamma.GammaStar(a, c*u)
		}
		// GammaStar(a,w) = (Gamma(a) - Ugamma(a,w)) / (Gamma(a)*w^a), so
		// -Gamma(a)*GammaStar(a,w) = Ugamma(a,w)/w^a - Gamma(a)/w^a:
		// differentiate the first part with the same f(u)*pow(u)
		// decomposition GDer uses (f = Ugamma(a, c*u)), and the second
		// part as a multiple of pow(u).
		total := 0.0
		binom := 1.0
		for i := 0; i <= m; i++ {
			fi := polyder.IntPow(c, i) * fDeriv(a, c*u, i)
			total += binom * fi * pj(m-i)
			binom *= float64(m-i) / float64(i+1)
		}
		return total - math.Gamma(a)*pj(m)
	}
	return polyder.RadialDeriv(z, alpha, gDeriv)
}
