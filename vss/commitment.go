// Package vss implements Feldman verifiable secret sharing: a dealer that
// commits to and distributes shares of a random polynomial, and an
// aggregator that verifies and sums accepted dealings into one joint
// sharing.
package vss

import (
	"golang.org/x/crypto/sha3"

	"threshold.network/promise/curve"
)

// commitmentDomainTag is prefixed to every commitment hash, matching the
// bit-exact hashing rule so independently-computed hashes agree across
// implementations sharing this domain.
var commitmentDomainTag = []byte("cfx-promise-polynomial-commitment-secp256k1")

// PolynomialCommitment is a Feldman commitment [C0, C1, ..., Cd] to the
// coefficients of a degree-d polynomial f, where Ci = coefficient_i * G.
// Points are always held in normalized (affine) form, so this type doubles
// as the spec's "affine polynomial commitment".
type PolynomialCommitment struct {
	Points []curve.Element
}

// Degree returns the polynomial's degree, or -1 for an empty commitment.
func (pc PolynomialCommitment) Degree() int { return len(pc.Points) - 1 }

// Evaluate computes VSS(x, pc) = Σ Ci * x^i via Horner's method.
func (pc PolynomialCommitment) Evaluate(x curve.Scalar) curve.Element {
	if len(pc.Points) == 0 {
		return curve.Identity()
	}
	result := pc.Points[len(pc.Points)-1]
	for i := len(pc.Points) - 2; i >= 0; i-- {
		result = result.ScalarMul(x).Add(pc.Points[i])
	}
	return result
}

// Add returns the coefficient-wise sum of pc and o, zero-padding the
// shorter commitment with the identity element up to the longer's length.
func (pc PolynomialCommitment) Add(o PolynomialCommitment) PolynomialCommitment {
	n := len(pc.Points)
	if len(o.Points) > n {
		n = len(o.Points)
	}
	out := make([]curve.Element, n)
	for i := 0; i < n; i++ {
		a := curve.Identity()
		if i < len(pc.Points) {
			a = pc.Points[i]
		}
		b := curve.Identity()
		if i < len(o.Points) {
			b = o.Points[i]
		}
		out[i] = a.Add(b)
	}
	return PolynomialCommitment{Points: out}
}

// Hash returns the stable commitment hash used for dedup and acceptance:
// Keccak256(domain tag || concat(point.Bytes() for point in pc.Points)).
func (pc PolynomialCommitment) Hash() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(commitmentDomainTag)
	for _, p := range pc.Points {
		h.Write(p.Bytes())
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
