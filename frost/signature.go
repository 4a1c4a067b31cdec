package frost

import "threshold.network/promise/curve"

// Signature is a point-and-scalar Schnorr signature: R is the group
// nonce commitment, Z is the aggregated response.
type Signature struct {
	R curve.Element
	Z curve.Scalar
}

// Bytes encodes the signature as R's compressed point encoding followed by
// Z's canonical scalar encoding.
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, 33+32)
	out = append(out, s.R.Bytes()...)
	zb := s.Z.Bytes()
	out = append(out, zb[:]...)
	return out
}

// Verify checks z·G == R + c·Y for c = H(R || Y || m).
func (s Signature) Verify(verifyingKey curve.Element, message []byte) bool {
	challenge := computeChallenge(s.R, verifyingKey, message)
	lhs := curve.ScalarBaseMul(s.Z)
	rhs := s.R.Add(verifyingKey.ScalarMul(challenge))
	return lhs.Equal(rhs)
}
