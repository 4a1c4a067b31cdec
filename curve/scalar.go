// Package curve provides the secp256k1 scalar and group-element primitives,
// batch inversion, multi-scalar multiplication, and Lagrange interpolation
// that the rest of the module is built on.
package curve

import (
	"crypto/rand"
	"encoding/binary"
	"errors"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an element of the secp256k1 scalar field, i.e. an integer
// modulo the group order N.
type Scalar struct {
	v secp.ModNScalar
}

// ScalarZero returns the additive identity.
func ScalarZero() Scalar { return Scalar{} }

// ScalarOne returns the multiplicative identity.
func ScalarOne() Scalar {
	var s Scalar
	s.v.SetInt(1)
	return s
}

// ScalarFromUint64 embeds n as a scalar. Used to turn NodeID/VoteID values
// into evaluation points on the secret polynomial.
func ScalarFromUint64(n uint64) Scalar {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:], n)
	var s Scalar
	s.v.SetByteSlice(buf[:])
	return s
}

// ScalarFromBytes interprets b as a big-endian integer reduced modulo N.
// Overflow is not reported; use ScalarFromCanonicalBytes to reject input
// that required reduction.
func ScalarFromBytes(b []byte) Scalar {
	var s Scalar
	s.v.SetByteSlice(b)
	return s
}

// ScalarFromCanonicalBytes behaves like ScalarFromBytes but rejects input
// that required modular reduction, for contexts where a canonical
// (non-overflowing) encoding is required.
func ScalarFromCanonicalBytes(b []byte) (Scalar, bool) {
	var s Scalar
	overflow := s.v.SetByteSlice(b)
	return s, !overflow
}

// RandomScalar samples a uniform non-zero scalar.
func RandomScalar() (Scalar, error) {
	for {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return Scalar{}, err
		}
		s := ScalarFromBytes(buf[:])
		if !s.IsZero() {
			return s, nil
		}
	}
}

// Add returns s + o mod N.
func (s Scalar) Add(o Scalar) Scalar {
	r := s.v
	r.Add(&o.v)
	return Scalar{v: r}
}

// Sub returns s - o mod N.
func (s Scalar) Sub(o Scalar) Scalar {
	neg := o.v
	neg.Negate()
	r := s.v
	r.Add(&neg)
	return Scalar{v: r}
}

// Negate returns -s mod N.
func (s Scalar) Negate() Scalar {
	r := s.v
	r.Negate()
	return Scalar{v: r}
}

// Mul returns s * o mod N. Scalar satisfies the GroupOp constraint via this
// method, so it can itself be interpolated (e.g. private signing-share
// aggregation) using the same kernel used for group elements.
func (s Scalar) Mul(o Scalar) Scalar {
	r := s.v
	r.Mul(&o.v)
	return Scalar{v: r}
}

// Invert returns the multiplicative inverse of s. Panics if s is zero; a
// zero scalar reaching Invert is a caller bug, not a remote-input error.
func (s Scalar) Invert() Scalar {
	if s.v.IsZero() {
		panic("curve: inversion of zero scalar")
	}
	r := s.v
	r.InverseValNonConst()
	return Scalar{v: r}
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool { return s.v.IsZero() }

// Equal reports whether s and o represent the same field element.
func (s Scalar) Equal(o Scalar) bool { return s.v.Equals(&o.v) }

// Bytes returns the canonical 32-byte big-endian encoding of s.
func (s Scalar) Bytes() [32]byte { return s.v.Bytes() }

// BatchInvert inverts every element of xs using a single underlying field
// inversion (Montgomery's trick). Panics if any entry is zero.
func BatchInvert(xs []Scalar) []Scalar {
	n := len(xs)
	if n == 0 {
		return nil
	}
	prefix := make([]Scalar, n)
	acc := ScalarOne()
	for i, x := range xs {
		if x.IsZero() {
			panic("curve: batch inversion of zero scalar")
		}
		prefix[i] = acc
		acc = acc.Mul(x)
	}
	accInv := acc.Invert()
	out := make([]Scalar, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = accInv.Mul(prefix[i])
		accInv = accInv.Mul(xs[i])
	}
	return out
}

// ErrNoPoints is returned by interpolation routines given an empty input set.
var ErrNoPoints = errors.New("curve: no points to interpolate")
