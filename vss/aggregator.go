package vss

import (
	"fmt"
	"sort"

	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// VerifiableSecretShares is the result of a finished aggregation: a joint
// commitment and, for every tracked VoteID, the summed share.
type VerifiableSecretShares struct {
	Commitment PolynomialCommitment
	Shares     map[ids.VoteID]curve.Scalar
}

type storedDealing struct {
	commitment PolynomialCommitment
	shares     []curve.Scalar // aligned with Aggregator.voteIDs
}

// Aggregator ("ShareAggregator") verifies incoming dealings against a fixed
// set of VoteIDs and sums the ones explicitly accepted into one joint
// VSS sharing.
type Aggregator struct {
	degree    int
	voteIDs   []ids.VoteID
	validated map[[32]byte]storedDealing
	accepted  map[[32]byte]bool

	aggregatedCommitment PolynomialCommitment
	aggregatedShares     map[ids.VoteID]curve.Scalar
}

// NewAggregator creates an aggregator tracking voteIDs, rejecting any
// dealing whose commitment has fewer than degree+1 coefficients.
func NewAggregator(degree int, voteIDs []ids.VoteID) *Aggregator {
	sorted := append([]ids.VoteID(nil), voteIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	shares := make(map[ids.VoteID]curve.Scalar, len(sorted))
	for _, v := range sorted {
		shares[v] = curve.ScalarZero()
	}

	return &Aggregator{
		degree:               degree,
		voteIDs:              sorted,
		validated:            make(map[[32]byte]storedDealing),
		accepted:             make(map[[32]byte]bool),
		aggregatedShares:     shares,
	}
}

// ReceiveSecretShare validates a dealing against the tracked VoteID set and
// stores it under its commitment hash for later acceptance. shares must be
// ordered the same way as the aggregator's sorted VoteIDs. Returns the
// commitment hash on success; repeating the same (commitment, shares) pair
// is a no-op overwrite of identical content.
func (a *Aggregator) ReceiveSecretShare(commitment PolynomialCommitment, shares []curve.Scalar) ([32]byte, error) {
	if commitment.Degree()+1 < a.degree+1 {
		return [32]byte{}, ErrTooSmallDegree
	}
	if len(shares) != len(a.voteIDs) {
		return [32]byte{}, fmt.Errorf("%w: want %d got %d", ErrIncorrectLength, len(a.voteIDs), len(shares))
	}

	for i, v := range a.voteIDs {
		x := ids.NumToIdentifier(uint64(v))
		expected := commitment.Evaluate(x)
		actual := curve.ScalarBaseMul(shares[i])
		if !expected.Equal(actual) {
			return [32]byte{}, fmt.Errorf("%w: vote %d", ErrInconsistentSecretShare, v)
		}
	}

	hash := commitment.Hash()
	a.validated[hash] = storedDealing{
		commitment: commitment,
		shares:     append([]curve.Scalar(nil), shares...),
	}
	return hash, nil
}

// AcceptPolynomialCommitment folds the dealing stored under hash into the
// running aggregate. Idempotent: accepting the same hash twice is a no-op
// the second time. Fails with ErrUnknownCommitment if hash was never
// validated via ReceiveSecretShare.
func (a *Aggregator) AcceptPolynomialCommitment(hash [32]byte) error {
	if a.accepted[hash] {
		return nil
	}
	dealing, ok := a.validated[hash]
	if !ok {
		return ErrUnknownCommitment
	}

	a.aggregatedCommitment = a.aggregatedCommitment.Add(dealing.commitment)
	for i, v := range a.voteIDs {
		a.aggregatedShares[v] = a.aggregatedShares[v].Add(dealing.shares[i])
	}
	a.accepted[hash] = true
	return nil
}

// Finalize returns the aggregated commitment and shares accumulated so far.
func (a *Aggregator) Finalize() VerifiableSecretShares {
	shares := make(map[ids.VoteID]curve.Scalar, len(a.aggregatedShares))
	for k, v := range a.aggregatedShares {
		shares[k] = v
	}
	return VerifiableSecretShares{
		Commitment: a.aggregatedCommitment,
		Shares:     shares,
	}
}
