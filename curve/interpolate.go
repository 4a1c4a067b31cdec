package curve

import "fmt"

// GroupOp is the capability set the interpolation kernel needs from a
// value type: additive combination and scaling by a Scalar. Both Scalar
// (private signing-share interpolation) and Element (verifying-share /
// commitment interpolation) satisfy it.
type GroupOp[T any] interface {
	Add(T) T
	Mul(Scalar) T
}

// LagrangeCoefficients computes, for each xs[i], the Lagrange basis
// coefficient that makes Σ coeff[i]*f(xs[i]) equal f(at). A nil at means
// "evaluate at the secret's reserved identifier", i.e. at = 0 — the case
// used to reconstruct or verify against the constant term of a polynomial.
func LagrangeCoefficients(xs []Scalar, at *Scalar) ([]Scalar, error) {
	n := len(xs)
	if n == 0 {
		return nil, ErrNoPoints
	}
	evalPoint := ScalarZero()
	if at != nil {
		evalPoint = *at
	}

	coeffs := make([]Scalar, n)
	denoms := make([]Scalar, n)
	for i := 0; i < n; i++ {
		num := ScalarOne()
		den := ScalarOne()
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			num = num.Mul(evalPoint.Sub(xs[j]))
			den = den.Mul(xs[i].Sub(xs[j]))
		}
		if den.IsZero() {
			return nil, fmt.Errorf("curve: duplicate interpolation point at index %d", i)
		}
		coeffs[i] = num
		denoms[i] = den
	}

	denomInvs := BatchInvert(denoms)
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(denomInvs[i])
	}
	return coeffs, nil
}

// LagrangeCoefficientFor returns the single Lagrange basis coefficient for
// identifier self within the full set identifiers, evaluated at the
// secret's reserved identifier (x=0). This is the per-signer λ used by
// FROST signing and signer-group collapsing.
func LagrangeCoefficientFor(identifiers []Scalar, self Scalar) (Scalar, error) {
	idx := -1
	for i, x := range identifiers {
		if x.Equal(self) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Scalar{}, fmt.Errorf("curve: identifier not present in interpolation set")
	}
	coeffs, err := LagrangeCoefficients(identifiers, nil)
	if err != nil {
		return Scalar{}, err
	}
	return coeffs[idx], nil
}

// InterpolateAndEvaluate evaluates the unique polynomial through
// (xs[i], ys[i]) at the point at (or at the secret's reserved identifier
// x=0 if at is nil). identity must be the additive identity of T (curve.Identity()
// for Element, curve.ScalarZero() for Scalar) since T cannot be constructed
// generically.
func InterpolateAndEvaluate[T GroupOp[T]](xs []Scalar, ys []T, at *Scalar, identity T) (T, error) {
	if len(xs) != len(ys) {
		return identity, fmt.Errorf("curve: %d identifiers but %d values", len(xs), len(ys))
	}
	coeffs, err := LagrangeCoefficients(xs, at)
	if err != nil {
		return identity, err
	}
	result := identity
	for i, c := range coeffs {
		result = result.Add(ys[i].Mul(c))
	}
	return result, nil
}

// MultiScalarMul computes Σ scalars[i]*points[i]. This is a naive
// accumulation rather than a windowed MSM; batched callers with large sets
// should fan this out with ParallelMap over chunks if it becomes a
// bottleneck, matching the "ESTIMATE_MSM_TIME"-driven chunking the design
// this is grounded on uses to decide when parallelism pays off.
func MultiScalarMul(scalars []Scalar, points []Element) (Element, error) {
	if len(scalars) != len(points) {
		return Element{}, fmt.Errorf("curve: %d scalars but %d points", len(scalars), len(points))
	}
	result := Identity()
	for i := range scalars {
		result = result.Add(points[i].ScalarMul(scalars[i]))
	}
	return result, nil
}
