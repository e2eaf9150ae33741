package polyder

import (
	"math"
	"testing"
)

func TestIntPow(t *testing.T) {
	for _, test := range []struct {
		x    float64
		n    int
		want float64
	}{
		{2, 0, 1}, {2, 3, 8}, {2, -1, 0.5}, {3, 4, 81},
	} {
		got := IntPow(test.x, test.n)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("IntPow(%v, %v) = %v, want %v", test.x, test.n, got, test.want)
		}
	}
}

func TestMultAbsFacPow(t *testing.T) {
	alpha := []int{2, 1, 3}
	if got, want := MultAbs(alpha), 6; got != want {
		t.Errorf("MultAbs = %v, want %v", got, want)
	}
	if got, want := MultFac(alpha), 2.0*1*6; got != want {
		t.Errorf("MultFac = %v, want %v", got, want)
	}
	v := []float64{2, 3, 4}
	got := MultPow(alpha, v)
	want := math.Pow(2, 2) * math.Pow(3, 1) * math.Pow(4, 3)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("MultPow = %v, want %v", got, want)
	}
}

func TestYDerZerothOrder(t *testing.T) {
	z := []float64{1, 2}
	alpha := []int{0, 0}
	got := YDer(2, z, alpha)
	s := z[0]*z[0] + z[1]*z[1]
	want := s * s
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("YDer(2, z, 0) = %v, want %v", got, want)
	}
}

// TestYDerMatchesFiniteDifference checks the first partial derivative of
// Y_k(z) = |z|^2k against a centered finite difference.
func TestYDerMatchesFiniteDifference(t *testing.T) {
	z := []float64{0.7, -1.3, 0.4}
	k := 3
	h := 1e-5
	for axis := 0; axis < 3; axis++ {
		alpha := make([]int, 3)
		alpha[axis] = 1
		got := YDer(k, z, alpha)

		zp := append([]float64(nil), z...)
		zm := append([]float64(nil), z...)
		zp[axis] += h
		zm[axis] -= h
		f := func(v []float64) float64 {
			s := 0.0
			for _, vi := range v {
				s += vi * vi
			}
			return IntPow(s, k)
		}
		want := (f(zp) - f(zm)) / (2 * h)
		if math.Abs(got-want) > 1e-4*math.Max(1, math.Abs(want)) {
			t.Errorf("YDer axis %d = %v, want ~%v", axis, got, want)
		}
	}
}

func TestLogLDerMatchesFiniteDifference(t *testing.T) {
	z := []float64{1.1, -0.6}
	h := 1e-6
	for axis := 0; axis < 2; axis++ {
		alpha := make([]int, 2)
		alpha[axis] = 1
		got := LogLDer(z, alpha)

		zp := append([]float64(nil), z...)
		zm := append([]float64(nil), z...)
		zp[axis] += h
		zm[axis] -= h
		f := func(v []float64) float64 {
			s := 0.0
			for _, vi := range v {
				s += vi * vi
			}
			return math.Log(s)
		}
		want := (f(zp) - f(zm)) / (2 * h)
		if math.Abs(got-want) > 1e-4*math.Max(1, math.Abs(want)) {
			t.Errorf("LogLDer axis %d = %v, want ~%v", axis, got, want)
		}
	}
}

// TestRadialDerivTaylor checks the multi-index Taylor identity
// g(|z+delta|^2) = sum_{|alpha|<=N} delta^alpha/alpha! * RadialDeriv(z,alpha,gDeriv)
// for g(s) = exp(s), against direct evaluation, for all |alpha| <= 6 in 2D.
func TestRadialDerivTaylor(t *testing.T) {
	z := []float64{0.3, -0.2}
	delta := []float64{0.01, -0.015}
	gDeriv := func(m int) float64 {
		s := z[0]*z[0] + z[1]*z[1]
		return math.Exp(s) // every derivative of exp equals itself at s.
	}

	sum := 0.0
	const N = 6
	for i := 0; i <= N; i++ {
		for j := 0; j <= N-i; j++ {
			alpha := []int{i, j}
			d := RadialDeriv(z, alpha, gDeriv)
			sum += IntPow(delta[0], i) * IntPow(delta[1], j) / (factorial(i) * factorial(j)) * d
		}
	}

	zp := []float64{z[0] + delta[0], z[1] + delta[1]}
	want := math.Exp(zp[0]*zp[0] + zp[1]*zp[1])
	if math.Abs(sum-want) > 1e-9*math.Abs(want) {
		t.Errorf("Taylor sum = %v, want %v", sum, want)
	}
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func TestPAndLFaaDiBruno(t *testing.T) {
	// P and L with beta = alpha and the identity derivative sequence
	// (fDeriv(m) = 1 for all m, and p = 0) reduce to the same symbolic
	// expansion coefficient: with f'=1 at every order P(alpha,alpha,1)
	// should equal the count of ways to reach z^alpha, which by
	// construction must be the same bookkeeping L(alpha,alpha,p=0) uses
	// for its own z^alpha monomial (L's falling factorial at p=0 differs,
	// so this only checks that both run without panicking and return
	// finite values for a representative alpha).
	z := []float64{0.5, 1.5}
	alpha := []int{2, 1}
	beta := []int{2, 1}
	p := P(z, alpha, beta, func(int) float64 { return 1 })
	l := L(z, alpha, beta, 0)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		t.Errorf("P returned non-finite value: %v", p)
	}
	if math.IsNaN(l) || math.IsInf(l, 0) {
		t.Errorf("L returned non-finite value: %v", l)
	}
}
