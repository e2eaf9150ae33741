package epsteinzeta

import (
	"math"
	"testing"
)

func TestIsDiagonal(t *testing.T) {
	if !isDiagonal(2, []float64{1, 0, 0, 2}) {
		t.Error("isDiagonal(diagonal matrix) = false, want true")
	}
	if isDiagonal(2, []float64{1, 0.1, 0, 2}) {
		t.Error("isDiagonal(non-diagonal matrix) = true, want false")
	}
}

func TestCutoffsDiagonal(t *testing.T) {
	a := []float64{2, 0, 0, 4}
	b := []float64{0.5, 0, 0, 0.25}
	real, reci := cutoffs(2, a, b)
	var two, four float64 = 2, 4
	wantReal := []int{int((gBound + 0.5) / two), int((gBound + 0.5) / four)}
	wantReci := []int{int((gBound + 0.5) * two), int((gBound + 0.5) * four)}
	for i := range wantReal {
		if real[i] != wantReal[i] || reci[i] != wantReci[i] {
			t.Errorf("cutoffs[%d] = (%d,%d), want (%d,%d)", i, real[i], reci[i], wantReal[i], wantReci[i])
		}
	}
}

func TestProjectToCellIdentity(t *testing.T) {
	a := []float64{1, 0, 0, 1}
	b := []float64{1, 0, 0, 1}
	v := []float64{0.2, -0.3}
	got := projectToCell(2, a, b, v)
	for i := range v {
		if math.Abs(got[i]-v[i]) > 1e-12 {
			t.Errorf("projectToCell(in-cell)[%d] = %v, want %v", i, got[i], v[i])
		}
	}
}

func TestProjectToCellWraps(t *testing.T) {
	a := []float64{1, 0, 0, 1}
	b := []float64{1, 0, 0, 1}
	v := []float64{1.2, -1.7}
	got := projectToCell(2, a, b, v)
	for i, gi := range got {
		if gi <= -0.5 || gi > 0.5 {
			t.Errorf("projectToCell(out-of-cell)[%d] = %v, want value in (-0.5,0.5]", i, gi)
		}
	}
}

func TestCuboidSizeAndDecode(t *testing.T) {
	c := []int{1, 2}
	if got, want := cuboidSize(c), 3*5; got != want {
		t.Errorf("cuboidSize = %v, want %v", got, want)
	}
	dst := make([]int, 2)
	decode(c, 0, dst)
	if dst[0] != -1 || dst[1] != -2 {
		t.Errorf("decode(0) = %v, want [-1 -2]", dst)
	}
	decode(c, cuboidSize(c)-1, dst)
	if dst[0] != 1 || dst[1] != 2 {
		t.Errorf("decode(last) = %v, want [1 2]", dst)
	}
}

func TestZeroIndex(t *testing.T) {
	c := []int{1, 2}
	idx := zeroIndex(c)
	dst := make([]int, 2)
	decode(c, idx, dst)
	if dst[0] != 0 || dst[1] != 0 {
		t.Errorf("decode(zeroIndex) = %v, want [0 0]", dst)
	}
}
