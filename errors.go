package epsteinzeta

import "github.com/epsteinlib/epsteinzeta/internal/linalg"

// ErrSingularGenerator is returned by the package-level helpers in this file
// that expose the lattice generator's invertibility as a typed error instead
// of the NaN+NaNi the four evaluation entry points return at the same
// failure mode, for callers that want to distinguish a singular generator
// from the other fatal conditions before spending a full evaluation on it.
var ErrSingularGenerator = linalg.ErrSingular

// CheckGenerator reports whether the dim-by-dim row-major matrix a is
// invertible, returning ErrSingularGenerator if not. EpsteinZeta and its
// variants do not call this themselves -- a singular generator there
// surfaces as NaN+NaNi, matching the reference implementation's contract --
// but callers that want an explicit error ahead of time may use it.
func CheckGenerator(dim int, a []float64) error {
	_, err := linalg.Invert(dim, append([]float64(nil), a...))
	return err
}
