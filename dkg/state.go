// Package dkg accumulates dealer commitments across the committee into a
// single joint sharing, ahead of proactive resharing in package dpss.
package dkg

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/vss"
)

// State accumulates accepted dealer commitments for one DKG round.
type State struct {
	accepted   map[[32]byte]bool
	commitment vss.PolynomialCommitment
	numNodes   int
	numVotes   int
}

// NewState returns an empty DKG accumulator.
func NewState() *State {
	return &State{accepted: make(map[[32]byte]bool)}
}

// ReceiveNewCommitment folds a dealer's commitment into the running total.
// nodeVotes is the vote weight of the node that produced pc. Deduplicates
// by commitment hash: submitting the same commitment twice is a no-op the
// second time.
func (s *State) ReceiveNewCommitment(nodeVotes int, pc vss.PolynomialCommitment) {
	hash := pc.Hash()
	if s.accepted[hash] {
		return
	}
	s.accepted[hash] = true
	s.commitment = s.commitment.Add(pc)
	s.numNodes++
	s.numVotes += nodeVotes
}

// CommitSecret returns the constant term of the accumulated commitment,
// i.e. the group element committing to the DKG's joint secret contribution.
func (s *State) CommitSecret() curve.Element {
	if len(s.commitment.Points) == 0 {
		return curve.Identity()
	}
	return s.commitment.Points[0]
}

// Commitment returns the accumulated polynomial commitment.
func (s *State) Commitment() vss.PolynomialCommitment { return s.commitment }

// NumNodes returns the count of accepted commitments, one per distinct
// commitment hash (each dealer node is expected to submit one).
func (s *State) NumNodes() int { return s.numNodes }

// NumVotes returns the sum of vote weights across accepted nodes.
func (s *State) NumVotes() int { return s.numVotes }

// HasEnoughVotes reports whether the accumulated vote weight meets
// threshold.
func (s *State) HasEnoughVotes(threshold int) bool { return s.numVotes >= threshold }

// CommitmentHashes returns the set of accepted dealer commitment hashes,
// inherited by dpss.ReshareState at the DKG-to-reshare transition.
func (s *State) CommitmentHashes() map[[32]byte]bool {
	out := make(map[[32]byte]bool, len(s.accepted))
	for h := range s.accepted {
		out[h] = true
	}
	return out
}
