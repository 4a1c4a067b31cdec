package vss

import (
	"threshold.network/promise/curve"
	"threshold.network/promise/ids"
)

// ShareMessage is the per-node output of a dealing: the dealer's public
// commitment plus the shares for that node's own VoteIDs.
type ShareMessage struct {
	Commitment PolynomialCommitment
	Shares     map[ids.VoteID]curve.Scalar
}

// Dealer ("ShareSender") samples a random polynomial, commits to it, and
// computes a share for every VoteID in a target group.
type Dealer struct {
	coeffs       []curve.Scalar
	commitment   PolynomialCommitment
	sharesByVote map[ids.VoteID]curve.Scalar
	acked        map[ids.NodeID][]byte
}

// NewDealer samples a degree-d polynomial and deals a share to every VoteID
// in group. If constantTerm is non-nil, the polynomial's constant term is
// fixed to that value instead of sampled — used during proactive
// resharing, where a share-holder's reshare polynomial must reproduce their
// current share at x=0.
func NewDealer(degree int, group *ids.VoteGroup, constantTerm *curve.Scalar) (*Dealer, error) {
	coeffs := make([]curve.Scalar, degree+1)
	if constantTerm != nil {
		coeffs[0] = *constantTerm
	} else {
		s, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		coeffs[0] = s
	}
	for i := 1; i <= degree; i++ {
		s, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		coeffs[i] = s
	}

	points, err := curve.ParallelMap(coeffs, func(c curve.Scalar) (curve.Element, error) {
		return curve.ScalarBaseMul(c), nil
	})
	if err != nil {
		return nil, err
	}
	commitment := PolynomialCommitment{Points: points}

	evalF := func(x curve.Scalar) curve.Scalar {
		result := coeffs[len(coeffs)-1]
		for i := len(coeffs) - 2; i >= 0; i-- {
			result = result.Mul(x).Add(coeffs[i])
		}
		return result
	}

	votes := group.AllVotes()
	shareValues, err := curve.ParallelMap(votes, func(v ids.VoteID) (curve.Scalar, error) {
		return evalF(ids.NumToIdentifier(uint64(v))), nil
	})
	if err != nil {
		return nil, err
	}
	shares := make(map[ids.VoteID]curve.Scalar, len(votes))
	for i, v := range votes {
		shares[v] = shareValues[i]
	}

	return &Dealer{coeffs: coeffs, commitment: commitment, sharesByVote: shares}, nil
}

// Commitment returns the dealer's public polynomial commitment.
func (d *Dealer) Commitment() PolynomialCommitment { return d.commitment }

// MessagesFor builds the per-node ShareMessage set to deliver to group.
func (d *Dealer) MessagesFor(group *ids.VoteGroup) map[ids.NodeID]ShareMessage {
	out := make(map[ids.NodeID]ShareMessage, len(group.Nodes()))
	for _, node := range group.Nodes() {
		votes := group.Votes(node)
		shares := make(map[ids.VoteID]curve.Scalar, len(votes))
		for _, v := range votes {
			shares[v] = d.sharesByVote[v]
		}
		out[node] = ShareMessage{Commitment: d.commitment, Shares: shares}
	}
	return out
}

// ReceiveShareAck records that node acknowledged its ShareMessage with an
// opaque signature (spec §9 open question (b): ShareSignature is a
// placeholder for ack-round signatures, never interpreted here).
func (d *Dealer) ReceiveShareAck(node ids.NodeID, signature []byte) {
	if d.acked == nil {
		d.acked = make(map[ids.NodeID][]byte)
	}
	d.acked[node] = signature
}

// TotalAckVotes returns the sum of vote weights across every node that has
// acknowledged this dealing, letting a host decide when a dealing round has
// been seen by enough of the committee ahead of aggregation.
func (d *Dealer) TotalAckVotes(group *ids.VoteGroup) int {
	total := 0
	for node := range d.acked {
		total += len(group.Votes(node))
	}
	return total
}

// GenerateProof is unimplemented; see spec §9 open question (a).
func (d *Dealer) GenerateProof() ([]byte, error) {
	return nil, ErrProofNotImplemented
}
