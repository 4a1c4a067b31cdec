package frost

import (
	"bytes"
	"crypto/sha256"
	"sort"

	"threshold.network/promise/curve"
)

// bindingFactorDomainTag is the literal FROST binding-factor domain
// separator.
const bindingFactorDomainTag = "conflux-promise"

// Identifier is a participant's evaluation point, shared with the ids
// package's embedding of NodeID/VoteID into the scalar field.
type Identifier = curve.Scalar

// SigningCommitments is a signer's pre-committed (hiding, binding) nonce
// pair for one round. Both points must be non-identity.
type SigningCommitments struct {
	Hiding  curve.Element
	Binding curve.Element
}

func sha256Sum(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// hashToScalarTagged domain-separates a SHA-256 hash by tag and reduces the
// digest modulo the group order.
func hashToScalarTagged(tag string, parts ...[]byte) curve.Scalar {
	all := append([][]byte{[]byte(tag)}, parts...)
	return curve.ScalarFromBytes(sha256Sum(all...))
}

// sortedIdentifiers returns the keys of commitments sorted by their
// canonical big-endian byte encoding — a well-defined total order since
// every identifier used in this module is a small non-negative integer
// embedded directly into the scalar field.
func sortedIdentifiers(commitments map[Identifier]SigningCommitments) []Identifier {
	out := make([]Identifier, 0, len(commitments))
	for id := range commitments {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := out[i].Bytes(), out[j].Bytes()
		return bytes.Compare(bi[:], bj[:]) < 0
	})
	return out
}

// encodeCommitmentList serializes the ordered commitment list per FROST
// §4.3: identifier || hiding || binding, concatenated in identifier order.
func encodeCommitmentList(order []Identifier, commitments map[Identifier]SigningCommitments) []byte {
	var buf bytes.Buffer
	for _, id := range order {
		b := id.Bytes()
		buf.Write(b[:])
		c := commitments[id]
		buf.Write(c.Hiding.Bytes())
		buf.Write(c.Binding.Bytes())
	}
	return buf.Bytes()
}

// computeBindingFactors implements FROST §4.4: one binding-factor scalar
// per identifier, derived from the verifying key, message, and full
// commitment list so no signer can bias another's nonce.
func computeBindingFactors(
	message []byte,
	verifyingKey curve.Element,
	commitments map[Identifier]SigningCommitments,
) (order []Identifier, factors map[Identifier]curve.Scalar) {
	order = sortedIdentifiers(commitments)
	msgHash := sha256Sum(message)
	commitmentsHash := sha256Sum(encodeCommitmentList(order, commitments))

	factors = make(map[Identifier]curve.Scalar, len(order))
	for _, id := range order {
		idBytes := id.Bytes()
		factors[id] = hashToScalarTagged(
			bindingFactorDomainTag,
			verifyingKey.Bytes(),
			msgHash,
			commitmentsHash,
			idBytes[:],
		)
	}
	return order, factors
}

// computeGroupCommitment implements FROST §4.5: R = Σ (hiding_i + ρ_i·binding_i).
func computeGroupCommitment(
	order []Identifier,
	commitments map[Identifier]SigningCommitments,
	bindingFactors map[Identifier]curve.Scalar,
) curve.Element {
	result := curve.Identity()
	for _, id := range order {
		c := commitments[id]
		result = result.Add(c.Hiding).Add(c.Binding.ScalarMul(bindingFactors[id]))
	}
	return result
}

// computeChallenge computes the Schnorr challenge c = H(R || Y || m).
func computeChallenge(groupCommitment, verifyingKey curve.Element, message []byte) curve.Scalar {
	return hashToScalarTagged("conflux-promise-challenge", groupCommitment.Bytes(), verifyingKey.Bytes(), message)
}
